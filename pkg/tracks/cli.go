package tracks

import (
	"context"

	"github.com/kr/pretty"
	"github.com/signalrail/signalrail/pkg/overpass"
	"github.com/signalrail/signalrail/pkg/util"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "Railway track acquisition helpers",
		Subcommands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "fetch & normalise tracks around a coordinate",
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:     "lat",
						Required: true,
					},
					&cli.Float64Flag{
						Name:     "lng",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "radius",
						Value: 2000,
						Usage: "search radius in meters",
					},
				},
				Action: func(c *cli.Context) error {
					env := util.GetEnvironmentVariables()

					endpoints := overpass.DefaultEndpoints
					if env["SIGNALRAIL_ENDPOINT_SOURCES"] != "" {
						endpoints = overpass.LoadEndpointSources(env["SIGNALRAIL_ENDPOINT_SOURCES"])
					}

					client := overpass.NewClient(endpoints)

					elements := client.NearbyRailways(context.Background(), c.Float64("lat"), c.Float64("lng"), c.Int("radius"))
					segments := NormalizeElements(elements)

					pretty.Println(segments)

					return nil
				},
			},
		},
	}
}
