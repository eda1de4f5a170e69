package events

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/signalrail/signalrail/pkg/elastic_client"
)

// AnalysisBatchConsumer drains the analysis events queue into
// Elasticsearch, one weekly index per event type.
type AnalysisBatchConsumer struct{}

func NewAnalysisBatchConsumer() *AnalysisBatchConsumer {
	return &AnalysisBatchConsumer{}
}

func (consumer *AnalysisBatchConsumer) Consume(batch rmq.Deliveries) {
	currentTime := time.Now()
	yearNumber, weekNumber := currentTime.ISOWeek()
	indexName := fmt.Sprintf("analysis-events-%d-%d", yearNumber, weekNumber)

	for _, payload := range batch.Payloads() {
		elastic_client.IndexRequest(indexName, bytes.NewReader([]byte(payload)))
	}

	if ackErrors := batch.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Error().Err(err).Msg("Failed to consume analysis event")
		}
	}
}
