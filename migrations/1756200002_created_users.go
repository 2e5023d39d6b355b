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

		collection := core.NewBaseCollection("users")

		collection.Fields.Add(
			&core.RelationField{
				Name:          "account",
				CollectionId:  accounts.Id,
				Required:      true,
				MaxSelect:     1,
				CascadeDelete: true,
			},
			&core.NumberField{Name: "user_no", OnlyInt: true, Required: true},
			&core.TextField{Name: "first_name", Max: 100},
			&core.TextField{Name: "last_name", Max: 100},
			&core.TextField{Name: "phone", Max: 30},
			&core.SelectField{
				Name:      "gender",
				Values:    []string{"male", "female", "other"},
				MaxSelect: 1,
			},
			&core.NumberField{Name: "birth_year", OnlyInt: true},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		collection.AddIndex("idx_users_account", true, "account", "")
		collection.AddIndex("idx_users_user_no", true, "user_no", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("users")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
