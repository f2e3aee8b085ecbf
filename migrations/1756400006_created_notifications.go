package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		users, err := app.FindCollectionByNameOrId("users")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("notifications")

		collection.Fields.Add(
			&core.RelationField{Name: "user_id", Required: true, CollectionId: users.Id, MaxSelect: 1},
			&core.TextField{Name: "title", Required: true},
			&core.TextField{Name: "message"},
			&core.SelectField{Name: "category", MaxSelect: 1, Values: []string{"payment", "ticket", "system"}},
			&core.TextField{Name: "link"},
			&core.BoolField{Name: "read"},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("notifications")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
