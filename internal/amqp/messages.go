package amqp

import (
	"encoding/json"
	"time"
)

// ChangeMessage describes one successful record-store mutation. The audit
// worker consumes these; it never needs the document body, only the
// coordinates of the change.
type ChangeMessage struct {
	Collection string    `json:"collection"`
	Op         string    `json:"op"`
	RecordID   string    `json:"record_id"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewChangeMessage(collection, op, recordID string) *ChangeMessage {
	return &ChangeMessage{
		Collection: collection,
		Op:         op,
		RecordID:   recordID,
		Timestamp:  time.Now().UTC(),
	}
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ChangeMessageFromJSON(body []byte) (*ChangeMessage, error) {
	var m ChangeMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
