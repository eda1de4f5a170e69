package routes

import (
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/signalrail/signalrail/pkg/geomath"
	"github.com/signalrail/signalrail/pkg/tracks"
)

type trackDistance struct {
	Track     tracks.TrackSegment
	DistanceM float64
}

func DashboardRouter(router fiber.Router, source TrackSource) {
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

		p := pool.NewWithResults[trackDistance]()
		p.WithMaxGoroutines(16)

		for _, segment := range segments {
			p.Go(func() trackDistance {
				return trackDistance{
					Track:     segment,
					DistanceM: geomath.NearestDistanceMeters(lat, lng, segment.Geometry.Coordinates),
				}
			})
		}

		var nearestTrack *tracks.TrackSegment
		nearestDistance := math.Inf(1)

		for _, candidate := range p.Wait() {
			if candidate.DistanceM < nearestDistance {
				nearestDistance = candidate.DistanceM
				track := candidate.Track
				nearestTrack = &track
			}
		}

		response := fiber.Map{
			"location": fiber.Map{
				"lat": lat,
				"lng": lng,
			},
			"tracks_found":       len(segments),
			"nearest_track":      nearestTrack,
			"nearest_distance_m": nil,
		}

		if nearestTrack != nil {
			response["nearest_distance_m"] = nearestDistance
		}

		return c.JSON(response)
	})
}
