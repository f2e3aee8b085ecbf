package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("webhook_deliveries")

		collection.Fields.Add(
			&core.TextField{Name: "notification_id", Required: true},
			&core.TextField{Name: "transaction_reference", Required: true},
			&core.SelectField{Name: "outcome", Required: true, MaxSelect: 1, Values: []string{
				"received", "processed", "already_settled", "capacity_anomaly",
			}},
			&core.AutodateField{Name: "received_at", OnCreate: true},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		// The unique index is the idempotency guarantee: concurrent
		// deliveries of one notification race on this insert, not on a lock.
		collection.AddIndex("idx_webhook_deliveries_notification_id", true, "notification_id", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("webhook_deliveries")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
