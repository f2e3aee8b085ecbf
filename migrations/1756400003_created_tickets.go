package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
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
		transactions, err := app.FindCollectionByNameOrId("payment_transactions")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("tickets")

		collection.Fields.Add(
			&core.RelationField{Name: "event_id", Required: true, CollectionId: events.Id, MaxSelect: 1},
			&core.RelationField{Name: "buyer_id", Required: true, CollectionId: users.Id, MaxSelect: 1},
			&core.RelationField{Name: "transaction_id", Required: true, CollectionId: transactions.Id, MaxSelect: 1},
			&core.TextField{Name: "ticket_code", Required: true},
			&core.SelectField{Name: "status", Required: true, MaxSelect: 1, Values: []string{"ativo", "usado", "cancelado"}},
			&core.DateField{Name: "purchase_date"},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		collection.AddIndex("idx_tickets_ticket_code", true, "ticket_code", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("tickets")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
