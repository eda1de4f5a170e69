package records

import (
	"time"

	"github.com/signalrail/signalrail/pkg/tracks"
)

// SavedAnalysis captures the track a user analysed for a location,
// frozen at analysis time so later cache refreshes don't rewrite it.
type SavedAnalysis struct {
	PrimaryIdentifier string `json:"id" bson:"primaryidentifier"`
	LocationRef       string `json:"location_ref" bson:"locationref"`

	Track tracks.TrackSegment `json:"track" bson:"track"`

	Data map[string]interface{} `json:"data,omitempty" bson:"data,omitempty"`

	CreationDateTime time.Time `json:"creation_date_time" bson:"creationdatetime"`
}
