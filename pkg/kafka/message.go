package kafka

import (
	"encoding/json"
	"time"

	"github.com/Ramsey-B/fern/pkg/models"
)

// IncomingMessage is a raw Kafka message plus its parsed game record.
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	Record *models.IncomingRecord
}

// ParseRecord decodes the message value into the crawler's game record shape.
// Field validation happens downstream in the processor.
func (m *IncomingMessage) ParseRecord() error {
	var record models.IncomingRecord
	if err := json.Unmarshal(m.Value, &record); err != nil {
		return err
	}
	m.Record = &record
	return nil
}

// ClassificationEvent is the outcome published for the flagging/creation
// collaborator.
type ClassificationEvent struct {
	SourceGameID      string            `json:"source_game_id"`
	Status            string            `json:"status"`
	Resolved          map[string]string `json:"resolved"`
	Missing           []string          `json:"missing"`
	EventID           *string           `json:"event_id"`
	EventLookupFailed bool              `json:"event_lookup_failed,omitempty"`
	Bookmakers        map[string]string `json:"bookmakers,omitempty"`
	Timestamp         time.Time         `json:"timestamp"`
}

// NewClassificationEvent builds the wire event from an outcome.
func NewClassificationEvent(outcome *models.ResolutionOutcome) *ClassificationEvent {
	return &ClassificationEvent{
		SourceGameID:      outcome.SourceGameID,
		Status:            string(outcome.Status),
		Resolved:          outcome.Resolved,
		Missing:           outcome.Missing,
		EventID:           outcome.EventID,
		EventLookupFailed: outcome.EventLookupFailed,
		Bookmakers:        outcome.Bookmakers,
	}
}
