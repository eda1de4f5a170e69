package records

import "time"

type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Body      interface{} `json:"body"`
}

type EventType string

const (
	EventTypeLocationCreated EventType = "LocationCreated"
	EventTypeNoiseCalculated EventType = "NoiseCalculated"
	EventTypeAnalysisSaved   EventType = "AnalysisSaved"
)
