package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		orders, err := app.FindCollectionByNameOrId("orders")
		if err != nil {
			return err
		}
		events, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("tickets")

		collection.Fields.Add(
			&core.NumberField{Name: "ticket_no", OnlyInt: true, Required: true},
			&core.RelationField{
				Name:         "order",
				CollectionId: orders.Id,
				Required:     true,
				MaxSelect:    1,
			},
			&core.RelationField{
				Name:         "event",
				CollectionId: events.Id,
				Required:     true,
				MaxSelect:    1,
			},
			&core.NumberField{Name: "category_id", OnlyInt: true},
			&core.NumberField{Name: "ticket_type_id", OnlyInt: true},
			&core.TextField{Name: "pass_id", Required: true, Max: 40},
			&core.TextField{Name: "qr_payload", Max: 200},
			&core.BoolField{Name: "is_validated"},
			&core.DateField{Name: "validation_time"},
			&core.BoolField{Name: "revoked"},
			&core.TextField{Name: "attendee_name", Max: 200},
			&core.TextField{Name: "attendee_email", Max: 200},
			&core.TextField{Name: "attendee_phone", Max: 30},
			&core.FileField{
				Name:      "document",
				MaxSelect: 1,
				MaxSize:   5242880,
				MimeTypes: []string{"application/pdf"},
			},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		collection.AddIndex("idx_tickets_ticket_no", true, "ticket_no", "")
		collection.AddIndex("idx_tickets_pass_id", true, "pass_id", "")
		collection.AddIndex("idx_tickets_order", false, "`order`", "")
		collection.AddIndex("idx_tickets_event", false, "event", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("tickets")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
