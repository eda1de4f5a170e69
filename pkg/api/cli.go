package api

import (
	"github.com/rs/zerolog/log"
	"github.com/signalrail/signalrail/pkg/database"
	"github.com/signalrail/signalrail/pkg/elastic_client"
	"github.com/signalrail/signalrail/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the core web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":9500",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						log.Warn().Err(err).Msg("Running without Redis, geocode caching and events disabled")
					}
					if err := elastic_client.Connect(false); err != nil {
						return err
					}

					return SetupServer(c.String("listen"))
				},
			},
		},
	}
}
