package noise

import "math"

// Reference emission levels at the 25m measurement distance used by the
// Schall 03 style calculation the frontend presents.
const (
	passengerBaseDb    = 75.0
	freightBaseDb      = 85.0
	referenceDistanceM = 25.0

	nightReductionDb = 5.0
	maxEventBonusDb  = 10.0
)

type Estimate struct {
	DayLevelDb   float64 `json:"day_level_db" bson:"dayleveldb,omitempty"`
	NightLevelDb float64 `json:"night_level_db" bson:"nightleveldb,omitempty"`
	MaxLevelDb   float64 `json:"max_level_db" bson:"maxleveldb,omitempty"`
}

// Calculate estimates the sound exposure at a given distance from a track.
//
// trainsPerHour raises the continuous level logarithmically,
// freightFraction (0..1) blends the passenger and freight base levels.
// Degenerate inputs are clamped, never rejected: distances under 25m are
// treated as 25m and frequencies under 0.1 trains/hour as 0.1.
func Calculate(distanceM float64, trainsPerHour float64, freightFraction float64) Estimate {
	base := freightFraction*freightBaseDb + (1-freightFraction)*passengerBaseDb

	// 6dB per doubling of distance
	if distanceM < referenceDistanceM {
		distanceM = referenceDistanceM
	}
	attenuation := 20 * math.Log10(distanceM/referenceDistanceM)

	frequencyCorrection := 10 * math.Log10(math.Max(trainsPerHour, 0.1))

	level := base - attenuation + frequencyCorrection

	return Estimate{
		DayLevelDb:   roundDecibel(level),
		NightLevelDb: roundDecibel(level - nightReductionDb),
		// single loud freight train passing
		MaxLevelDb: roundDecibel(base - attenuation + maxEventBonusDb),
	}
}

func roundDecibel(level float64) float64 {
	return math.Round(level*10) / 10
}
