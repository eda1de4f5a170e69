package tracks

type TrackType string

const (
	TrackTypeMain    TrackType = "main"
	TrackTypeBranch  TrackType = "branch"
	TrackTypeFreight TrackType = "freight"
)

// Geometry is a GeoJSON style LineString. Coordinates are ordered
// (longitude, latitude) pairs.
type Geometry struct {
	Type        string      `json:"type" bson:"type" groups:"basic,detailed"`
	Coordinates [][]float64 `json:"coordinates" bson:"coordinates" groups:"basic,detailed"`
}

// TrackSegment is the normalised representation of a single railway way.
// Every segment carries a geometry of at least two points; shorter ways
// are dropped during normalisation.
type TrackSegment struct {
	ID        int64  `json:"id" bson:"id" groups:"basic,detailed"`
	SegmentID string `json:"segment_id" bson:"segmentid" groups:"basic,detailed"`

	Name      string    `json:"name" bson:"name" groups:"basic,detailed"`
	TrackType TrackType `json:"track_type" bson:"tracktype" groups:"basic,detailed"`

	Electrified bool `json:"electrified" bson:"electrified" groups:"basic,detailed"`
	MultiTrack  bool `json:"multi_track" bson:"multitrack" groups:"basic,detailed"`

	Geometry Geometry `json:"geojson_geometry" bson:"geometry" groups:"basic,detailed"`

	Properties map[string]interface{} `json:"properties" bson:"properties" groups:"detailed"`
}
