package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/signalrail/signalrail/pkg/api"
	"github.com/signalrail/signalrail/pkg/events"
	"github.com/signalrail/signalrail/pkg/tracks"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("SIGNALRAIL_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("SIGNALRAIL_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "signalrail",
		Description: "Railway proximity, frequency & noise information service",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			events.RegisterCLI(),
			tracks.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
