package models

import (
	"time"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionPaid      TransactionStatus = "paid"
	TransactionCancelled TransactionStatus = "cancelled"
	TransactionFailed    TransactionStatus = "failed"
)

// Terminal reports whether the status can no longer change.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionPaid || s == TransactionCancelled || s == TransactionFailed
}

// PaymentTransaction is created in pending by the purchase flow and is
// mutated only by the webhook pipeline. Rows are never deleted (audit trail).
type PaymentTransaction struct {
	ID            string            `json:"id"`
	EventID       string            `json:"event_id"`
	BuyerID       string            `json:"buyer_id"`
	Quantity      int               `json:"quantity"`
	Amount        int64             `json:"amount"` // currency minor units
	PaymentMethod string            `json:"payment_method"`
	Gateway       string            `json:"gateway"`
	Status        TransactionStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	PaidAt        *time.Time        `json:"paid_at,omitempty"`
}
