package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

// accounts is the single auth collection. Email, password and token
// fields come with the auth collection itself; we add the role tag and
// the two sequence numbers minted at registration.
func init() {
	m.Register(func(app core.App) error {
		collection := core.NewAuthCollection("accounts")

		collection.Fields.Add(
			&core.SelectField{
				Name:      "role",
				Values:    []string{"user", "organizer", "admin"},
				MaxSelect: 1,
				Required:  true,
			},
			&core.NumberField{Name: "account_no", OnlyInt: true, Required: true},
			&core.NumberField{Name: "role_no", OnlyInt: true, Required: true},
			&core.DateField{Name: "last_login"},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		collection.AddIndex("idx_accounts_account_no", true, "account_no", "")
		collection.AddIndex("idx_accounts_role", false, "role", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("accounts")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
