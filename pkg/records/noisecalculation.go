package records

import (
	"time"

	"github.com/signalrail/signalrail/pkg/noise"
)

// NoiseCalculation is a persisted noise estimate for a distance from a
// track segment.
type NoiseCalculation struct {
	TrackSegmentRef string `json:"track_segment_ref" bson:"tracksegmentref"`
	LocationRef     string `json:"location_ref,omitempty" bson:"locationref,omitempty"`

	DistanceM float64 `json:"distance_m" bson:"distancem"`

	Levels noise.Estimate `json:"levels" bson:"levels"`

	FreightPercentage float64 `json:"freight_percentage" bson:"freightpercentage"`
	TrainsPerHour     float64 `json:"trains_per_hour" bson:"trainsperhour"`

	CalculatedAt time.Time `json:"calculated_at" bson:"calculatedat"`
}
