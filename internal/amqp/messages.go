package amqp

import (
	"encoding/json"
	"time"

	"budgetwise/internal/core"
)

// ChangeMessage announces a record change to other instances. It carries
// no record data; receivers reload from their own backend.
type ChangeMessage struct {
	Kind      core.RecordKind `json:"kind"`
	Op        core.ChangeOp   `json:"op"`
	ID        string          `json:"id"`
	Origin    string          `json:"origin"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewChangeMessage wraps ev, stamping it with the publishing instance.
func NewChangeMessage(ev core.ChangeEvent, origin string) *ChangeMessage {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	return &ChangeMessage{
		Kind:      ev.Kind,
		Op:        ev.Op,
		ID:        ev.ID,
		Origin:    origin,
		Timestamp: at,
	}
}

// Event converts the message back into a change event marked as remote.
func (m *ChangeMessage) Event() core.ChangeEvent {
	return core.ChangeEvent{
		Kind:   m.Kind,
		Op:     m.Op,
		ID:     m.ID,
		At:     m.Timestamp,
		Origin: m.Origin,
		Remote: true,
	}
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
