package webhook

import (
	"context"
	"time"

	"ticketpass/models"
)

// Store is the entity repository the pipeline runs against. The contract
// carries the two atomicity guarantees the pipeline depends on:
//
//   - BeginDelivery is an atomic insert-if-absent on the notification id
//     (unique ledger key, not an application-level lock);
//   - Settle commits the state transition, capacity reservation, ticket
//     minting and the ledger outcome as one unit. Either all of it is
//     visible afterwards or none of it.
type Store interface {
	// FindTransaction resolves a gateway transaction reference.
	FindTransaction(ctx context.Context, ref string) (*models.PaymentTransaction, error)

	// BeginDelivery inserts the ledger placeholder for notificationID if
	// absent. created is false when a row already existed.
	BeginDelivery(ctx context.Context, notificationID, transactionRef string) (delivery *models.WebhookDelivery, created bool, err error)

	// Settle fires the pending transition and, for a paid target, the
	// capacity-safe issuance.
	Settle(ctx context.Context, req SettleRequest) (*SettleResult, error)
}

type SettleRequest struct {
	DeliveryID     string
	TransactionRef string
	Target         models.TransactionStatus
	SettledAt      time.Time
}

type SettleResult struct {
	Outcome     models.DeliveryOutcome
	Transaction *models.PaymentTransaction
	Tickets     []*models.Ticket
}
