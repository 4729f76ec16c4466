package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/narwhalmedia/marquee/pkg/interfaces"
)

// Envelope wraps an event with metadata for transport
type Envelope struct {
	ID          string      `json:"id"`
	AggregateID string      `json:"aggregate_id"`
	EventType   string      `json:"event_type"`
	OccurredAt  time.Time   `json:"occurred_at"`
	Data        interface{} `json:"data,omitempty"`
}

// NewEnvelope builds the transport form of event.
func NewEnvelope(event interfaces.Event) Envelope {
	env := Envelope{
		ID:          event.EventID(),
		AggregateID: event.AggregateID(),
		EventType:   event.EventType(),
		OccurredAt:  time.Unix(0, event.Timestamp()).UTC(),
	}
	if base, ok := event.(*BaseEvent); ok && len(base.Data) > 0 {
		env.Data = base.Data
	}
	return env
}

// MarshalEnvelope encodes event as a JSON envelope.
func MarshalEnvelope(event interfaces.Event) ([]byte, error) {
	data, err := json.Marshal(NewEnvelope(event))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return data, nil
}
