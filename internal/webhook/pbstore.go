package webhook

import (
	"context"
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"ticketpass/internal/status"
	"ticketpass/models"
	"ticketpass/utils"
)

// PBStore backs the pipeline with PocketBase collections. Idempotency rides
// on the unique index over webhook_deliveries.notification_id; capacity
// safety on a conditional UPDATE against events.tickets_sold.
type PBStore struct {
	app core.App
}

func NewPBStore(app core.App) *PBStore {
	return &PBStore{app: app}
}

func (s *PBStore) FindTransaction(_ context.Context, ref string) (*models.PaymentTransaction, error) {
	record, err := s.app.FindRecordById("payment_transactions", ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", status.ErrTransactionNotFound, ref)
	}
	return transactionFromRecord(record), nil
}

func (s *PBStore) BeginDelivery(_ context.Context, notificationID, transactionRef string) (*models.WebhookDelivery, bool, error) {
	collection, err := s.app.FindCollectionByNameOrId("webhook_deliveries")
	if err != nil {
		return nil, false, fmt.Errorf("begin delivery: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set("notification_id", notificationID)
	record.Set("transaction_reference", transactionRef)
	record.Set("outcome", string(models.DeliveryReceived))

	if err := s.app.Save(record); err != nil {
		// The unique index on notification_id rejected the insert: an
		// earlier or concurrent delivery of the same notification won.
		existing, findErr := s.app.FindFirstRecordByData("webhook_deliveries", "notification_id", notificationID)
		if findErr != nil {
			return nil, false, fmt.Errorf("begin delivery: %w", err)
		}
		return deliveryFromRecord(existing), false, nil
	}

	return deliveryFromRecord(record), true, nil
}

func (s *PBStore) Settle(_ context.Context, req SettleRequest) (*SettleResult, error) {
	var res SettleResult

	err := s.app.RunInTransaction(func(txApp core.App) error {
		txRecord, err := txApp.FindRecordById("payment_transactions", req.TransactionRef)
		if err != nil {
			return fmt.Errorf("%w: %q", status.ErrTransactionNotFound, req.TransactionRef)
		}
		delivery, err := txApp.FindRecordById("webhook_deliveries", req.DeliveryID)
		if err != nil {
			return fmt.Errorf("settle: load delivery: %w", err)
		}

		// The transition fires only out of pending; anything else already
		// settled this transaction and the delivery becomes a no-op. A
		// finished outcome on the ledger row stays untouched so a resumed
		// settle cannot misrecord which delivery did the work.
		if current := models.TransactionStatus(txRecord.GetString("status")); current != models.TransactionPending {
			res.Outcome = models.DeliveryAlreadySettled
			res.Transaction = transactionFromRecord(txRecord)
			if delivery.GetString("outcome") == string(models.DeliveryReceived) {
				delivery.Set("outcome", string(res.Outcome))
				return txApp.Save(delivery)
			}
			return nil
		}

		txRecord.Set("status", string(req.Target))
		if req.Target == models.TransactionPaid {
			txRecord.Set("paid_at", req.SettledAt)
		}
		if err := txApp.Save(txRecord); err != nil {
			return fmt.Errorf("settle: update transaction: %w", err)
		}

		res.Outcome = models.DeliveryProcessed
		if req.Target == models.TransactionPaid {
			reserved, err := reserveCapacity(txApp, txRecord.GetString("event_id"), txRecord.GetInt("quantity"))
			if err != nil {
				return err
			}
			if !reserved {
				res.Outcome = models.DeliveryCapacityAnomaly
				if err := flagAnomaly(txApp, txRecord); err != nil {
					return err
				}
			} else {
				tickets, err := mintTickets(txApp, txRecord, req)
				if err != nil {
					return err
				}
				res.Tickets = tickets
			}
		}

		delivery.Set("outcome", string(res.Outcome))
		if err := txApp.Save(delivery); err != nil {
			return fmt.Errorf("settle: update delivery: %w", err)
		}

		res.Transaction = transactionFromRecord(txRecord)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &res, nil
}

// reserveCapacity performs the capacity check and increment as one
// conditional UPDATE. A read-then-write pair here would oversell under
// concurrent paid transitions for the same event.
func reserveCapacity(txApp core.App, eventID string, quantity int) (bool, error) {
	result, err := txApp.DB().NewQuery(`
		UPDATE events
		SET tickets_sold = tickets_sold + {:q}
		WHERE id = {:id} AND tickets_sold + {:q} <= capacity
	`).Bind(dbx.Params{"q": quantity, "id": eventID}).Execute()
	if err != nil {
		return false, fmt.Errorf("reserve capacity: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reserve capacity: %w", err)
	}
	return affected > 0, nil
}

func mintTickets(txApp core.App, txRecord *core.Record, req SettleRequest) ([]*models.Ticket, error) {
	collection, err := txApp.FindCollectionByNameOrId("tickets")
	if err != nil {
		return nil, fmt.Errorf("mint tickets: %w", err)
	}

	quantity := txRecord.GetInt("quantity")
	tickets := make([]*models.Ticket, 0, quantity)
	for i := 0; i < quantity; i++ {
		code, err := utils.GenerateCode(16)
		if err != nil {
			return nil, fmt.Errorf("mint tickets: %w", err)
		}

		record := core.NewRecord(collection)
		record.Set("event_id", txRecord.GetString("event_id"))
		record.Set("buyer_id", txRecord.GetString("buyer_id"))
		record.Set("transaction_id", txRecord.Id)
		record.Set("ticket_code", fmt.Sprintf("%s-%s", txRecord.GetString("event_id"), code))
		record.Set("status", string(models.TicketActive))
		record.Set("purchase_date", req.SettledAt)

		if err := txApp.Save(record); err != nil {
			return nil, fmt.Errorf("mint tickets: %w", err)
		}
		tickets = append(tickets, ticketFromRecord(record))
	}

	return tickets, nil
}

func flagAnomaly(txApp core.App, txRecord *core.Record) error {
	collection, err := txApp.FindCollectionByNameOrId("capacity_anomalies")
	if err != nil {
		return fmt.Errorf("flag anomaly: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set("transaction_id", txRecord.Id)
	record.Set("event_id", txRecord.GetString("event_id"))
	record.Set("quantity", txRecord.GetInt("quantity"))
	record.Set("resolved", false)

	if err := txApp.Save(record); err != nil {
		return fmt.Errorf("flag anomaly: %w", err)
	}
	return nil
}

func transactionFromRecord(record *core.Record) *models.PaymentTransaction {
	tx := &models.PaymentTransaction{
		ID:            record.Id,
		EventID:       record.GetString("event_id"),
		BuyerID:       record.GetString("buyer_id"),
		Quantity:      record.GetInt("quantity"),
		Amount:        int64(record.GetInt("amount")),
		PaymentMethod: record.GetString("payment_method"),
		Gateway:       record.GetString("gateway"),
		Status:        models.TransactionStatus(record.GetString("status")),
		CreatedAt:     record.GetDateTime("created").Time(),
	}
	if paidAt := record.GetDateTime("paid_at").Time(); !paidAt.IsZero() {
		tx.PaidAt = &paidAt
	}
	return tx
}

func ticketFromRecord(record *core.Record) *models.Ticket {
	return &models.Ticket{
		ID:            record.Id,
		EventID:       record.GetString("event_id"),
		BuyerID:       record.GetString("buyer_id"),
		TransactionID: record.GetString("transaction_id"),
		TicketCode:    record.GetString("ticket_code"),
		Status:        models.TicketStatus(record.GetString("status")),
		PurchaseDate:  record.GetDateTime("purchase_date").Time(),
	}
}

func deliveryFromRecord(record *core.Record) *models.WebhookDelivery {
	return &models.WebhookDelivery{
		ID:                   record.Id,
		NotificationID:       record.GetString("notification_id"),
		TransactionReference: record.GetString("transaction_reference"),
		Outcome:              models.DeliveryOutcome(record.GetString("outcome")),
		ReceivedAt:           record.GetDateTime("received_at").Time(),
	}
}
