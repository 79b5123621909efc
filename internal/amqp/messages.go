package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"dompet/internal/core"
)

// EventTransactionCreated is the message type published after a
// transaction is stored.
const EventTransactionCreated = "transaction.created"

// TransactionCreated carries enough to find the affected budgets without a
// lookup. Consumers that need the full record fetch it by TransactionID.
type TransactionCreated struct {
	Type          string      `json:"type"`
	TransactionID string      `json:"transactionId"`
	Amount        int64       `json:"amount"`
	Category      string      `json:"category"`
	TxType        core.TxType `json:"txType"`
	Year          int         `json:"year"`
	Month         int         `json:"month"`
	Timestamp     time.Time   `json:"timestamp"`
}

// NewTransactionCreated builds the event for a stored transaction.
func NewTransactionCreated(id string, tx core.Transaction) *TransactionCreated {
	return &TransactionCreated{
		Type:          EventTransactionCreated,
		TransactionID: id,
		Amount:        tx.Amount,
		Category:      tx.Category,
		TxType:        tx.Type,
		Year:          tx.Date.Year(),
		Month:         int(tx.Date.Month()),
		Timestamp:     time.Now(),
	}
}

func (m *TransactionCreated) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionCreatedFromJSON decodes and sanity-checks a message body.
func TransactionCreatedFromJSON(data []byte) (*TransactionCreated, error) {
	var msg TransactionCreated
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Type != EventTransactionCreated {
		return nil, fmt.Errorf("unexpected message type %q", msg.Type)
	}
	if msg.TransactionID == "" {
		return nil, fmt.Errorf("message without transaction id")
	}
	if msg.Month < 1 || msg.Month > 12 {
		return nil, fmt.Errorf("invalid month %d", msg.Month)
	}
	return &msg, nil
}
