package amqp

import (
	"encoding/json"
	"time"
)

// EventAction names the write that produced a TransactionEvent.
type EventAction string

const (
	ActionCreated EventAction = "created"
	ActionUpdated EventAction = "updated"
	ActionDeleted EventAction = "deleted"
)

// TransactionEvent represents a lightweight message about a transaction write.
// It carries only the ID and action; the worker fetches the full transaction
// from the database.
type TransactionEvent struct {
	ID        string      `json:"id"`
	Action    EventAction `json:"action"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewTransactionEvent creates a new event for the given transaction and action.
func NewTransactionEvent(id string, action EventAction) *TransactionEvent {
	return &TransactionEvent{
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON creates an event from JSON bytes
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var event TransactionEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
