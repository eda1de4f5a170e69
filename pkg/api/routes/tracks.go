package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
	"github.com/signalrail/signalrail/pkg/database"
	"github.com/signalrail/signalrail/pkg/events"
	"github.com/signalrail/signalrail/pkg/noise"
	"github.com/signalrail/signalrail/pkg/records"
	"github.com/signalrail/signalrail/pkg/schedule"
	"github.com/signalrail/signalrail/pkg/tracks"
	"github.com/signalrail/signalrail/pkg/util"
)

// TrackSource serves track segments near a coordinate, normally the
// grid cache.
type TrackSource interface {
	Get(ctx context.Context, lat float64, lng float64, radiusMeters int) []tracks.TrackSegment
}

func TracksRouter(router fiber.Router, source TrackSource) {
	router.Get("/", func(c *fiber.Ctx) error {
		lat, lng, err := coordinateQuery(c)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		radius := c.QueryInt("radius", 2000)

		segments := source.Get(c.Context(), lat, lng, radius)

		groups := []string{"basic"}
		if c.QueryBool("detailed", false) {
			groups = []string{"detailed"}
		}

		segmentsReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: groups,
		}, &segments)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Could not reduce track segments",
			})
		}

		return c.JSON(segmentsReduced)
	})

	router.Get("/:identifier/trains", getTrackTrains)
	router.Get("/:identifier/stats", getTrackStats)
	router.Get("/:identifier/noise", getTrackNoise)
}

func getTrackTrains(c *fiber.Ctx) error {
	hours := c.QueryInt("hours", 24)
	trackType := tracks.TrackType(c.Query("type", "main"))

	passages := schedule.GeneratePassages(trackType, hours)

	util.InPlaceFilter(&passages, func(passage schedule.Passage) bool {
		return passage.MinutesUntil >= 0
	})

	return c.JSON(passages)
}

func getTrackStats(c *fiber.Ctx) error {
	stats := noise.StatsForType(c.Query("type", "main"))

	// 6:00 to 22:00 counts as day
	return c.JSON(fiber.Map{
		"trains_per_day":     int(stats.DayTrainsPerHour * 16),
		"trains_per_night":   int(stats.NightTrainsPerHour * 8),
		"max_per_hour":       int(stats.DayTrainsPerHour),
		"freight_percentage": stats.FreightPercentage,
		"avg_speed":          stats.AvgSpeedKmh,
	})
}

func getTrackNoise(c *fiber.Ctx) error {
	trackSegmentRef := c.Params("identifier")
	distance := c.QueryFloat("distance", 100)

	stats := noise.StatsForType(c.Query("type", "main"))

	calculation := records.NoiseCalculation{
		TrackSegmentRef: trackSegmentRef,
		DistanceM:       distance,

		Levels: noise.Calculate(distance, stats.DayTrainsPerHour, stats.FreightPercentage),

		FreightPercentage: stats.FreightPercentage,
		TrainsPerHour:     stats.DayTrainsPerHour,

		CalculatedAt: time.Now(),
	}

	if database.Connected() {
		noiseCalculationsCollection := database.GetCollection("noise_calculations")
		if _, err := noiseCalculationsCollection.InsertOne(context.Background(), calculation); err != nil {
			log.Error().Err(err).Msg("Failed to store noise calculation")
		}
	}

	events.Publish(records.EventTypeNoiseCalculated, calculation)

	return c.JSON(calculation)
}

func coordinateQuery(c *fiber.Ctx) (float64, float64, error) {
	if c.Query("lat") == "" || c.Query("lng") == "" {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "Parameters lat and lng are required")
	}

	return c.QueryFloat("lat"), c.QueryFloat("lng"), nil
}
