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

		collection := core.NewBaseCollection("organizers")

		collection.Fields.Add(
			&core.RelationField{
				Name:          "account",
				CollectionId:  accounts.Id,
				Required:      true,
				MaxSelect:     1,
				CascadeDelete: true,
			},
			&core.NumberField{Name: "organizer_no", OnlyInt: true, Required: true},
			&core.TextField{Name: "name", Required: true, Max: 200},
			&core.TextField{Name: "contact_email", Max: 200},
			&core.TextField{Name: "phone", Max: 30},
			&core.TextField{Name: "website", Max: 300},
			&core.TextField{Name: "facebook", Max: 300},
			&core.TextField{Name: "instagram", Max: 300},
			&core.FileField{
				Name:      "logo",
				MaxSelect: 1,
				MaxSize:   5242880,
				MimeTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
			},
			&core.SelectField{
				Name:      "status",
				Values:    []string{"pending", "approved", "rejected"},
				MaxSelect: 1,
				Required:  true,
			},
			&core.TextField{Name: "moderation_note", Max: 1000},
			&core.NumberField{Name: "event_count", OnlyInt: true},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		collection.AddIndex("idx_organizers_account", true, "account", "")
		collection.AddIndex("idx_organizers_organizer_no", true, "organizer_no", "")
		collection.AddIndex("idx_organizers_status", false, "status", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("organizers")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
