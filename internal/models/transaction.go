package models

import "time"

type TransactionStatus string

// Only completed transfers are persisted; there are no pending or
// failed rows in the transactions table.
const TxnCompleted TransactionStatus = "COMPLETED"

type Transaction struct {
	ID         string            `json:"id"`
	FromCardID string            `json:"from_card_id"`
	ToCardID   string            `json:"to_card_id"`
	Amount     int64             `json:"amount"`
	Status     TransactionStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
}
