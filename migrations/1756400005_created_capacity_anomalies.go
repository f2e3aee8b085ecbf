package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		events, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}
		transactions, err := app.FindCollectionByNameOrId("payment_transactions")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("capacity_anomalies")

		collection.Fields.Add(
			&core.RelationField{Name: "transaction_id", Required: true, CollectionId: transactions.Id, MaxSelect: 1},
			&core.RelationField{Name: "event_id", Required: true, CollectionId: events.Id, MaxSelect: 1},
			&core.NumberField{Name: "quantity", Required: true, OnlyInt: true, Min: types.Pointer(1.0)},
			&core.BoolField{Name: "resolved"},
			&core.TextField{Name: "note"},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("capacity_anomalies")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
