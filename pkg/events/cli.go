package events

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/signalrail/signalrail/pkg/consumer"
	"github.com/signalrail/signalrail/pkg/elastic_client"
	"github.com/signalrail/signalrail/pkg/records"
	"github.com/signalrail/signalrail/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Provides the analysis events runner",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "consume analysis events into the search index",
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}
					if err := elastic_client.Connect(true); err != nil {
						return err
					}

					redisConsumer := consumer.RedisConsumer{
						QueueName:       queueName,
						NumberConsumers: 5,
						BatchSize:       20,
						Timeout:         2 * time.Second,
						Consumer:        NewAnalysisBatchConsumer(),
					}
					redisConsumer.Setup()

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish

					elastic_client.WaitUntilQueueEmpty()

					return nil
				},
			},
			{
				Name:  "test-event",
				Usage: "generate a test event",
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}

					Publish(records.EventTypeNoiseCalculated, map[string]interface{}{
						"TrackSegmentRef": "TEST",
						"DistanceM":       100.0,
					})

					return nil
				},
			},
		},
	}
}
