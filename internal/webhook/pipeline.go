package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ticketpass/internal/status"
	"ticketpass/models"
	"ticketpass/monitoring"
)

// Notifier is the external notification emitter. Calls must not block and
// their outcome never affects issuance.
type Notifier interface {
	Notify(n models.Notification)
}

// Pipeline is the semantic half of webhook processing: payload parsing,
// freshness, idempotency ledger, transaction transition and issuance.
// Transport-level guards (origin, rate, signature) run in the handler
// before the raw body reaches Process.
type Pipeline struct {
	store    Store
	notifier Notifier
	monitor  *monitoring.Monitor
	window   time.Duration
	now      func() time.Time
}

func NewPipeline(store Store, notifier Notifier, monitor *monitoring.Monitor, window time.Duration) *Pipeline {
	return &Pipeline{
		store:    store,
		notifier: notifier,
		monitor:  monitor,
		window:   window,
		now:      time.Now,
	}
}

type Result struct {
	Outcome     models.DeliveryOutcome
	Transaction *models.PaymentTransaction
	Tickets     []*models.Ticket
	Duplicate   bool
}

// Process runs one notification through the pipeline. Every non-nil error
// corresponds to "no state was mutated"; duplicate and already-settled
// deliveries come back as successful no-op Results so the caller can ack
// the gateway and stop its retries.
func (p *Pipeline) Process(ctx context.Context, raw []byte) (*Result, error) {
	n, err := ParseNotification(raw)
	if err != nil {
		return nil, err
	}

	if err := CheckFreshness(n.Timestamp, p.now(), p.window); err != nil {
		return nil, err
	}

	target, _ := n.Target()

	tx, err := p.store.FindTransaction(ctx, n.ReferenceID)
	if err != nil {
		return nil, err
	}
	if !n.AmountMatches(tx.Amount) {
		return nil, fmt.Errorf("%w: notified %s, stored %d", status.ErrAmountMismatch, n.Amount, tx.Amount)
	}

	delivery, created, err := p.store.BeginDelivery(ctx, n.NotificationID, n.ReferenceID)
	if err != nil {
		return nil, err
	}
	if !created && delivery.Outcome != models.DeliveryReceived {
		// Repeat delivery of a finished notification: idempotent no-op.
		return &Result{Outcome: delivery.Outcome, Duplicate: true}, nil
	}
	if !created {
		// Placeholder left behind by a crash (or a concurrent in-flight
		// delivery). Settling again is safe: the mutation unit is atomic
		// and guarded by the pending check.
		slog.Warn("resuming webhook delivery with pending ledger entry",
			"notification_id", n.NotificationID, "reference_id", n.ReferenceID)
	}

	settled, err := p.store.Settle(ctx, SettleRequest{
		DeliveryID:     delivery.ID,
		TransactionRef: n.ReferenceID,
		Target:         target,
		SettledAt:      p.now(),
	})
	if err != nil {
		return nil, err
	}

	switch settled.Outcome {
	case models.DeliveryProcessed:
		if target == models.TransactionPaid {
			if p.monitor != nil {
				p.monitor.TrackTicketsIssued(settled.Transaction.EventID, len(settled.Tickets))
			}
			p.notifyIssued(settled)
		}
	case models.DeliveryCapacityAnomaly:
		// Payment was valid but the event cannot honor the quantity. Flag
		// loudly for manual reconciliation; the gateway still gets an ack.
		slog.Error("capacity anomaly: paid transaction could not be issued",
			"transaction_id", settled.Transaction.ID,
			"event_id", settled.Transaction.EventID,
			"quantity", settled.Transaction.Quantity)
		if p.monitor != nil {
			p.monitor.TrackCapacityAnomaly(settled.Transaction.EventID)
		}
	}

	return &Result{
		Outcome:     settled.Outcome,
		Transaction: settled.Transaction,
		Tickets:     settled.Tickets,
	}, nil
}

func (p *Pipeline) notifyIssued(settled *SettleResult) {
	if p.notifier == nil {
		return
	}
	p.notifier.Notify(models.Notification{
		UserID:   settled.Transaction.BuyerID,
		Title:    "Payment confirmed",
		Message:  fmt.Sprintf("Your %d ticket(s) are ready.", len(settled.Tickets)),
		Category: "ticket",
		Link:     "/tickets",
	})
}
