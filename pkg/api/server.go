package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/signalrail/signalrail/pkg/api/routes"
	"github.com/signalrail/signalrail/pkg/nominatim"
	"github.com/signalrail/signalrail/pkg/overpass"
	"github.com/signalrail/signalrail/pkg/tracks"
	"github.com/signalrail/signalrail/pkg/util"
)

func SetupServer(listen string) error {
	env := util.GetEnvironmentVariables()

	endpoints := overpass.DefaultEndpoints
	if env["SIGNALRAIL_ENDPOINT_SOURCES"] != "" {
		endpoints = overpass.LoadEndpointSources(env["SIGNALRAIL_ENDPOINT_SOURCES"])
	}

	cacheTTL := tracks.DefaultTTL
	if env["SIGNALRAIL_TRACK_CACHE_TTL"] != "" {
		if parsed, err := time.ParseDuration(env["SIGNALRAIL_TRACK_CACHE_TTL"]); err == nil {
			cacheTTL = parsed
		}
	}

	gridPrecision := tracks.DefaultGridPrecision
	if env["SIGNALRAIL_TRACK_GRID_PRECISION"] != "" {
		if parsed, err := strconv.Atoi(env["SIGNALRAIL_TRACK_GRID_PRECISION"]); err == nil {
			gridPrecision = parsed
		}
	}

	trackCache := tracks.NewCache(overpass.NewClient(endpoints), cacheTTL, gridPrecision)

	geocoder := &nominatim.Geocoder{}
	geocoder.Setup()

	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)
	group.Get("health", routes.Health)

	routes.TracksRouter(group.Group("/tracks"), trackCache)
	routes.LocationsRouter(group.Group("/locations"), geocoder)
	routes.DashboardRouter(group.Group("/dashboard"), trackCache)

	return webApp.Listen(listen)
}
