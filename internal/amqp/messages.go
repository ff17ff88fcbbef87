package amqp

import (
	"encoding/json"
	"time"
)

// TransactionEventMessage announces a committed transaction mutation. It
// carries only the action and id; consumers fetch the current record from
// their own repository.
type TransactionEventMessage struct {
	Action    string    `json:"action"`
	ID        int       `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEventMessage(action string, id int) *TransactionEventMessage {
	return &TransactionEventMessage{
		Action:    action,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventMessageFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Action == "" || msg.ID <= 0 {
		return nil, errInvalidMessage
	}
	return &msg, nil
}
