package amqp

import (
	"testing"
	"time"
)

func TestNewTransactionEvent(t *testing.T) {
	event := NewTransactionEvent("abc-123", ActionCreated)

	if event.ID != "abc-123" {
		t.Errorf("NewTransactionEvent() ID = %v, want abc-123", event.ID)
	}
	if event.Action != ActionCreated {
		t.Errorf("NewTransactionEvent() Action = %v, want %v", event.Action, ActionCreated)
	}
	if event.Timestamp.IsZero() {
		t.Error("NewTransactionEvent() Timestamp should not be zero")
	}
	if time.Since(event.Timestamp) > time.Second {
		t.Error("NewTransactionEvent() Timestamp should be recent")
	}
}

func TestTransactionEvent_JSON(t *testing.T) {
	timestamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	event := &TransactionEvent{
		ID:        "abc-123",
		Action:    ActionUpdated,
		Timestamp: timestamp,
	}

	jsonBytes, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := TransactionEventFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("TransactionEventFromJSON() error = %v", err)
	}

	if parsed.ID != event.ID {
		t.Errorf("Parsed ID = %v, want %v", parsed.ID, event.ID)
	}
	if parsed.Action != event.Action {
		t.Errorf("Parsed Action = %v, want %v", parsed.Action, event.Action)
	}
	if !parsed.Timestamp.Equal(event.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, event.Timestamp)
	}
}

func TestTransactionEvent_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"id": 42, "action": ["created"]}`)

	_, err := TransactionEventFromJSON(invalidJSON)
	if err == nil {
		t.Error("TransactionEventFromJSON() should fail with invalid JSON")
	}
}
