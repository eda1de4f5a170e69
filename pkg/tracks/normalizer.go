package tracks

import (
	"fmt"
	"strconv"

	"github.com/signalrail/signalrail/pkg/noise"
	"github.com/signalrail/signalrail/pkg/overpass"
)

// NormalizeElements converts raw Overpass elements into TrackSegments.
// Non-way elements and ways with fewer than two geometry points are
// dropped, not reported. Output order follows input order.
func NormalizeElements(elements []overpass.Element) []TrackSegment {
	segments := []TrackSegment{}

	for _, element := range elements {
		if element.Type != "way" {
			continue
		}

		if len(element.Geometry) < 2 {
			continue
		}

		tags := element.Tags
		if tags == nil {
			tags = map[string]string{}
		}

		trackType := ClassifyType(tags)
		stats := noise.StatsForType(string(trackType))

		coordinates := make([][]float64, 0, len(element.Geometry))
		for _, point := range element.Geometry {
			coordinates = append(coordinates, []float64{point.Lon, point.Lat})
		}

		segments = append(segments, TrackSegment{
			ID:          element.ID,
			SegmentID:   strconv.FormatInt(element.ID, 10),
			Name:        deriveName(tags, trackType),
			TrackType:   trackType,
			Electrified: tags["electrified"] != "" && tags["electrified"] != "no",
			MultiTrack:  parseTrackCount(tags["tracks"]) > 1,
			Geometry: Geometry{
				Type:        "LineString",
				Coordinates: coordinates,
			},
			Properties: map[string]interface{}{
				"usage":    tags["usage"],
				"service":  tags["service"],
				"operator": tags["operator"],
				"maxspeed": tags["maxspeed"],
				"gauge":    tags["gauge"],
				"ref":      tags["ref"],

				"day_trains_per_hour":   stats.DayTrainsPerHour,
				"night_trains_per_hour": stats.NightTrainsPerHour,
				"freight_percentage":    stats.FreightPercentage,
				"avg_speed_kmh":         stats.AvgSpeedKmh,
			},
		})
	}

	return segments
}

// deriveName falls back from the explicit name tag to a reference based
// label to a generic label for the track type.
func deriveName(tags map[string]string, trackType TrackType) string {
	if name := tags["name"]; name != "" {
		return name
	}

	if ref := tags["ref"]; ref != "" {
		return fmt.Sprintf("Strecke %s", ref)
	}

	switch trackType {
	case TrackTypeMain:
		return "Hauptstrecke"
	case TrackTypeBranch:
		return "Nebenstrecke"
	case TrackTypeFreight:
		return "Güterstrecke"
	default:
		return "Bahnstrecke"
	}
}

// parseTrackCount treats a missing or unparsable tracks tag as a single
// track.
func parseTrackCount(value string) int {
	count, err := strconv.Atoi(value)
	if err != nil {
		return 1
	}

	return count
}
