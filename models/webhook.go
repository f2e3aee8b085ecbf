package models

import (
	"time"
)

type DeliveryOutcome string

const (
	// DeliveryReceived is the placeholder written before any mutation. A
	// delivery stuck in this outcome marks a crash mid-processing.
	DeliveryReceived        DeliveryOutcome = "received"
	DeliveryProcessed       DeliveryOutcome = "processed"
	DeliveryAlreadySettled  DeliveryOutcome = "already_settled"
	DeliveryCapacityAnomaly DeliveryOutcome = "capacity_anomaly"
)

// WebhookDelivery is the idempotency ledger row, write-once per gateway
// notification id. Existence means "already handled, do not reprocess".
type WebhookDelivery struct {
	ID                   string          `json:"id"`
	NotificationID       string          `json:"notification_id"`
	TransactionReference string          `json:"transaction_reference"`
	Outcome              DeliveryOutcome `json:"outcome"`
	ReceivedAt           time.Time       `json:"received_at"`
}

// CapacityAnomaly records a paid transaction whose quantity could not be
// honored by the event's remaining capacity. Flagged for manual operator
// reconciliation, never silently dropped.
type CapacityAnomaly struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	EventID       string    `json:"event_id"`
	Quantity      int       `json:"quantity"`
	Resolved      bool      `json:"resolved"`
	Note          string    `json:"note,omitempty"`
	FlaggedAt     time.Time `json:"flagged_at"`
}
