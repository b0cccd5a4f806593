package amqp

import (
	"encoding/json"
	"time"
)

// LedgerSyncMessage announces a split expense that should be exported.
// It carries only the ID; the worker loads the row from the database.
type LedgerSyncMessage struct {
	ID        string    `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerSyncMessage stamps a sync message for expense id at the given version.
func NewLedgerSyncMessage(id string, version int64) *LedgerSyncMessage {
	return &LedgerSyncMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON encodes the message for publishing.
func (m *LedgerSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerSyncMessageFromJSON decodes a delivery body.
func LedgerSyncMessageFromJSON(data []byte) (*LedgerSyncMessage, error) {
	var msg LedgerSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
