package noise

// Stats describes the typical traffic on a class of railway line. The
// values are static estimates, not timetable derived.
type Stats struct {
	DayTrainsPerHour   float64 `json:"day_trains_per_hour"`
	NightTrainsPerHour float64 `json:"night_trains_per_hour"`
	FreightPercentage  float64 `json:"freight_percentage"`
	AvgSpeedKmh        float64 `json:"avg_speed_kmh"`
}

var trackTypeStats = map[string]Stats{
	"main": {
		DayTrainsPerHour:   20,
		NightTrainsPerHour: 4,
		FreightPercentage:  0.3,
		AvgSpeedKmh:        160,
	},
	"branch": {
		DayTrainsPerHour:   6,
		NightTrainsPerHour: 1,
		FreightPercentage:  0.1,
		AvgSpeedKmh:        80,
	},
	"freight": {
		DayTrainsPerHour:   3,
		NightTrainsPerHour: 3,
		FreightPercentage:  0.8,
		AvgSpeedKmh:        60,
	},
}

// StatsForType returns the traffic statistics for a track type. Unknown
// types get the main line values.
func StatsForType(trackType string) Stats {
	if stats, exists := trackTypeStats[trackType]; exists {
		return stats
	}

	return trackTypeStats["main"]
}
