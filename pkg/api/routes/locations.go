package routes

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/signalrail/signalrail/pkg/database"
	"github.com/signalrail/signalrail/pkg/events"
	"github.com/signalrail/signalrail/pkg/nominatim"
	"github.com/signalrail/signalrail/pkg/records"
	"github.com/signalrail/signalrail/pkg/tracks"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Geocoder resolves a free-form address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*nominatim.Coordinates, error)
}

func LocationsRouter(router fiber.Router, geocoder Geocoder) {
	router.Post("/", createLocation(geocoder))
	router.Get("/:identifier", getLocation)
	router.Post("/:identifier/analyses", createSavedAnalysis)
	router.Get("/:identifier/analyses", listSavedAnalyses)
}

type createLocationBody struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

func createLocation(geocoder Geocoder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body createLocationBody
		if err := c.BodyParser(&body); err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Could not parse location body",
			})
		}

		if body.Address != "" && (body.Lat == 0 || body.Lng == 0) {
			coordinates, err := geocoder.Geocode(c.Context(), body.Address)
			if errors.Is(err, nominatim.ErrNotFound) {
				c.SendStatus(fiber.StatusNotFound)
				return c.JSON(fiber.Map{
					"error": "Address not found",
				})
			} else if err != nil {
				c.SendStatus(fiber.StatusBadGateway)
				return c.JSON(fiber.Map{
					"error": "Geocoding failed",
				})
			}

			body.Lat = coordinates.Lat
			body.Lng = coordinates.Lng
		}

		location := records.Location{
			PrimaryIdentifier: primitive.NewObjectID().Hex(),

			Name:    body.Name,
			Address: body.Address,

			Lat: body.Lat,
			Lng: body.Lng,

			CreationDateTime: time.Now(),
		}

		if database.Connected() {
			locationsCollection := database.GetCollection("locations")
			if _, err := locationsCollection.InsertOne(context.Background(), location); err != nil {
				log.Error().Err(err).Msg("Failed to store location")
			}
		}

		events.Publish(records.EventTypeLocationCreated, location)

		return c.JSON(location)
	}
}

func getLocation(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	locationsCollection := database.GetCollection("locations")
	var location *records.Location
	locationsCollection.FindOne(context.Background(), bson.M{"primaryidentifier": identifier}).Decode(&location)

	if location == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Location matching Location Identifier",
		})
	}

	return c.JSON(location)
}

type createSavedAnalysisBody struct {
	Track tracks.TrackSegment    `json:"track"`
	Data  map[string]interface{} `json:"data"`
}

func createSavedAnalysis(c *fiber.Ctx) error {
	var body createSavedAnalysisBody
	if err := c.BodyParser(&body); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Could not parse analysis body",
		})
	}

	// freeze the track as analysed, detached from the live cache entry
	var frozenTrack tracks.TrackSegment
	if err := copier.CopyWithOption(&frozenTrack, body.Track, copier.Option{IgnoreEmpty: true, DeepCopy: true}); err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not copy track segment",
		})
	}

	analysis := records.SavedAnalysis{
		PrimaryIdentifier: primitive.NewObjectID().Hex(),
		LocationRef:       c.Params("identifier"),

		Track: frozenTrack,
		Data:  body.Data,

		CreationDateTime: time.Now(),
	}

	if database.Connected() {
		savedAnalysesCollection := database.GetCollection("saved_analyses")
		if _, err := savedAnalysesCollection.InsertOne(context.Background(), analysis); err != nil {
			log.Error().Err(err).Msg("Failed to store analysis")
		}
	}

	events.Publish(records.EventTypeAnalysisSaved, analysis)

	return c.JSON(analysis)
}

func listSavedAnalyses(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	analyses := []records.SavedAnalysis{}

	savedAnalysesCollection := database.GetCollection("saved_analyses")
	cursor, _ := savedAnalysesCollection.Find(context.Background(), bson.M{"locationref": identifier})

	for cursor.Next(context.TODO()) {
		var analysis records.SavedAnalysis
		if err := cursor.Decode(&analysis); err != nil {
			log.Error().Err(err).Msg("Failed to decode analysis")
			continue
		}

		analyses = append(analyses, analysis)
	}

	return c.JSON(analyses)
}
