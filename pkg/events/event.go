package events

import (
	"time"

	"github.com/google/uuid"
)

// BaseEvent is a basic implementation of the Event interface
type BaseEvent struct {
	ID    string                 `json:"id"`
	Type  string                 `json:"type"`
	Time  int64                  `json:"timestamp"`
	AggID string                 `json:"aggregate_id"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

// NewAggregateEvent creates a new event with an aggregate ID
func NewAggregateEvent(eventType string, aggregateID string, data map[string]interface{}) *BaseEvent {
	return &BaseEvent{
		ID:    uuid.NewString(),
		Type:  eventType,
		Time:  time.Now().UnixNano(),
		AggID: aggregateID,
		Data:  data,
	}
}

func (e *BaseEvent) EventID() string {
	return e.ID
}

func (e *BaseEvent) EventType() string {
	return e.Type
}

func (e *BaseEvent) Timestamp() int64 {
	return e.Time
}

func (e *BaseEvent) AggregateID() string {
	return e.AggID
}
