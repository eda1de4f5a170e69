package events

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/signalrail/signalrail/pkg/records"
	"github.com/signalrail/signalrail/pkg/redis_client"
)

const queueName = "analysis-events"

// Publish pushes an event onto the analysis queue. Publishing is
// best-effort; without a queue connection the event is dropped.
func Publish(eventType records.EventType, body interface{}) {
	if redis_client.QueueConnection == nil {
		return
	}

	eventsQueue, err := redis_client.QueueConnection.OpenQueue(queueName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open events queue")
		return
	}

	event := records.Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Body:      body,
	}

	eventBytes, _ := json.Marshal(event)

	if err := eventsQueue.PublishBytes(eventBytes); err != nil {
		log.Error().Err(err).Msg("Failed to publish event")
	}
}
