package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

// total_amount is stored as text: it is an exact decimal string, never a
// float.
func init() {
	m.Register(func(app core.App) error {
		accounts, err := app.FindCollectionByNameOrId("accounts")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("orders")

		collection.Fields.Add(
			&core.NumberField{Name: "order_no", OnlyInt: true, Required: true},
			&core.RelationField{
				Name:         "user",
				CollectionId: accounts.Id,
				Required:     true,
				MaxSelect:    1,
			},
			&core.JSONField{Name: "items", Required: true},
			&core.TextField{Name: "total_amount", Required: true, Max: 50},
			&core.SelectField{
				Name:      "payment_status",
				Values:    []string{"pending", "completed", "failed", "refunded"},
				MaxSelect: 1,
				Required:  true,
			},
			&core.TextField{Name: "payment_ref", Required: true, Max: 64},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		collection.AddIndex("idx_orders_order_no", true, "order_no", "")
		collection.AddIndex("idx_orders_payment_ref", true, "payment_ref", "")
		collection.AddIndex("idx_orders_user", false, "user", "")
		collection.AddIndex("idx_orders_payment_status", false, "payment_status", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("orders")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
