package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		accounts, err := app.FindCollectionByNameOrId("accounts")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("admins")

		collection.Fields.Add(
			&core.RelationField{
				Name:          "account",
				CollectionId:  accounts.Id,
				Required:      true,
				MaxSelect:     1,
				CascadeDelete: true,
			},
			&core.NumberField{Name: "admin_no", OnlyInt: true, Required: true},
			&core.TextField{Name: "first_name", Max: 100},
			&core.TextField{Name: "last_name", Max: 100},
			&core.TextField{Name: "phone", Max: 30},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		collection.AddIndex("idx_admins_account", true, "account", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("admins")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
