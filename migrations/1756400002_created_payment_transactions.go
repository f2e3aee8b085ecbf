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
		users, err := app.FindCollectionByNameOrId("users")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("payment_transactions")

		collection.Fields.Add(
			&core.RelationField{Name: "event_id", Required: true, CollectionId: events.Id, MaxSelect: 1},
			&core.RelationField{Name: "buyer_id", Required: true, CollectionId: users.Id, MaxSelect: 1},
			&core.NumberField{Name: "quantity", Required: true, OnlyInt: true, Min: types.Pointer(1.0)},
			// amount is stored in currency minor units
			&core.NumberField{Name: "amount", Required: true, OnlyInt: true, Min: types.Pointer(0.0)},
			&core.SelectField{Name: "payment_method", MaxSelect: 1, Values: []string{"qr_code", "credit_card", "bank_transfer"}},
			&core.TextField{Name: "gateway"},
			&core.SelectField{Name: "status", Required: true, MaxSelect: 1, Values: []string{"pending", "paid", "cancelled", "failed"}},
			&core.DateField{Name: "paid_at"},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("payment_transactions")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
