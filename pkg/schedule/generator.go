package schedule

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/signalrail/signalrail/pkg/noise"
	"github.com/signalrail/signalrail/pkg/tracks"
)

type TrainType string

const (
	TrainTypeFernverkehr     TrainType = "fernverkehr"
	TrainTypeRegionalverkehr TrainType = "regionalverkehr"
	TrainTypeGueterverkehr   TrainType = "gueterverkehr"
	TrainTypeSBahn           TrainType = "sbahn"
)

type Passage struct {
	ID int64 `json:"id"`

	TrainType   TrainType `json:"train_type"`
	TrainNumber string    `json:"train_number"`
	Direction   string    `json:"direction"`
	Operator    string    `json:"operator"`

	ScheduledTime time.Time `json:"scheduled_time"`
	SpeedKmh      int       `json:"speed_kmh"`

	MinutesUntil int `json:"minutes_until"`
}

var directions = []string{"Nord", "Süd", "Ost", "West"}

var freightOperators = []string{"DB Cargo", "TX Logistik", "RTB Cargo"}
var regionalOperators = []string{"DB Regio", "agilis", "Meridian"}

// GeneratePassages produces a plausible train schedule for a class of
// track over the coming hours. The output is illustrative sample data,
// not a timetable: counts follow the per-type frequency statistics,
// everything else is randomised.
func GeneratePassages(trackType tracks.TrackType, hours int) []Passage {
	stats := noise.StatsForType(string(trackType))

	now := time.Now()
	var passages []Passage

	for hour := 0; hour < hours; hour++ {
		targetTime := now.Add(time.Duration(hour) * time.Hour)

		trainsThisHour := int(stats.NightTrainsPerHour)
		if targetTime.Hour() >= 6 && targetTime.Hour() <= 22 {
			trainsThisHour = int(stats.DayTrainsPerHour)
		}

		for i := 0; i < trainsThisHour; i++ {
			scheduledTime := time.Date(
				targetTime.Year(), targetTime.Month(), targetTime.Day(),
				targetTime.Hour(), rand.Intn(60), 0, 0, targetTime.Location(),
			)

			passage := generatePassage(stats.FreightPercentage)
			passage.ScheduledTime = scheduledTime
			passage.MinutesUntil = int(scheduledTime.Sub(now).Minutes())

			passages = append(passages, passage)
		}
	}

	sort.Slice(passages, func(i, j int) bool {
		return passages[i].ScheduledTime.Before(passages[j].ScheduledTime)
	})

	return passages
}

func generatePassage(freightPercentage float64) Passage {
	passage := Passage{
		ID:        int64(rand.Intn(9000000) + 1000000),
		Direction: directions[rand.Intn(len(directions))],
	}

	if rand.Float64() < freightPercentage {
		passage.TrainType = TrainTypeGueterverkehr
		passage.Operator = freightOperators[rand.Intn(len(freightOperators))]
		passage.SpeedKmh = rand.Intn(41) + 40
		passage.TrainNumber = fmt.Sprintf("G%d", rand.Intn(9000)+1000)

		return passage
	}

	passengerTypes := []TrainType{TrainTypeFernverkehr, TrainTypeRegionalverkehr, TrainTypeSBahn}
	passage.TrainType = passengerTypes[rand.Intn(len(passengerTypes))]

	switch passage.TrainType {
	case TrainTypeFernverkehr:
		passage.Operator = "DB Fernverkehr"
		passage.SpeedKmh = rand.Intn(81) + 120
		passage.TrainNumber = fmt.Sprintf("ICE %d", rand.Intn(999)+1)
	case TrainTypeRegionalverkehr:
		passage.Operator = regionalOperators[rand.Intn(len(regionalOperators))]
		passage.SpeedKmh = rand.Intn(61) + 80
		passage.TrainNumber = fmt.Sprintf("RE %d", rand.Intn(99)+1)
	default:
		passage.Operator = "S-Bahn"
		passage.SpeedKmh = rand.Intn(41) + 60
		passage.TrainNumber = fmt.Sprintf("S%d", rand.Intn(8)+1)
	}

	return passage
}
