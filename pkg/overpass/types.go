package overpass

// Response is the raw Overpass API payload shape.
type Response struct {
	Elements []Element `json:"elements"`
}

// Element is a single feature returned by Overpass. Only ways carry a
// geometry when `out body geom` is requested.
type Element struct {
	Type     string            `json:"type"`
	ID       int64             `json:"id"`
	Tags     map[string]string `json:"tags"`
	Geometry []Point           `json:"geometry"`
}

type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
