package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"gofinances/internal/core"
)

const EventTransactionCreated = "transaction.created"

// TransactionCreated announces a newly registered transaction. The record is
// carried in full since the key-value store has no lookup by id.
type TransactionCreated struct {
	Event       string           `json:"event"`
	Transaction core.Transaction `json:"transaction"`
	Timestamp   time.Time        `json:"timestamp"`
}

func NewTransactionCreated(t core.Transaction) *TransactionCreated {
	return &TransactionCreated{
		Event:       EventTransactionCreated,
		Transaction: t,
		Timestamp:   time.Now(),
	}
}

func (m *TransactionCreated) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionCreatedFromJSON decodes a message and rejects other events.
func TransactionCreatedFromJSON(data []byte) (*TransactionCreated, error) {
	var msg TransactionCreated
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Event != EventTransactionCreated {
		return nil, errors.New("unexpected event " + msg.Event)
	}
	if msg.Transaction.ID == "" {
		return nil, errors.New("message without transaction id")
	}
	return &msg, nil
}
