package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

// events embeds its whole ticket offering in the categories JSON field;
// quantities in there are the live inventory counters.
func init() {
	m.Register(func(app core.App) error {
		organizers, err := app.FindCollectionByNameOrId("organizers")
		if err != nil {
			return err
		}
		genres, err := app.FindCollectionByNameOrId("genres")
		if err != nil {
			return err
		}
		locations, err := app.FindCollectionByNameOrId("locations")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("events")

		collection.Fields.Add(
			&core.NumberField{Name: "event_no", OnlyInt: true, Required: true},
			&core.RelationField{
				Name:         "organizer",
				CollectionId: organizers.Id,
				Required:     true,
				MaxSelect:    1,
			},
			&core.TextField{Name: "title", Required: true, Max: 300},
			&core.TextField{Name: "description", Max: 10000},
			&core.TextField{Name: "venue", Max: 300},
			&core.RelationField{Name: "location", CollectionId: locations.Id, MaxSelect: 1},
			&core.RelationField{Name: "genre", CollectionId: genres.Id, MaxSelect: 1},
			&core.FileField{
				Name:      "banner",
				MaxSelect: 1,
				MaxSize:   10485760,
				MimeTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
			},
			&core.SelectField{
				Name:      "status",
				Values:    []string{"draft", "pending", "approved", "live", "completed", "cancelled"},
				MaxSelect: 1,
				Required:  true,
			},
			&core.TextField{Name: "moderation_note", Max: 1000},
			&core.DateField{Name: "start_at"},
			&core.DateField{Name: "end_at"},
			&core.DateField{Name: "sale_start_at"},
			&core.DateField{Name: "sale_end_at"},
			&core.JSONField{Name: "categories"},
			&core.JSONField{Name: "artists"},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		collection.AddIndex("idx_events_event_no", true, "event_no", "")
		collection.AddIndex("idx_events_organizer", false, "organizer", "")
		collection.AddIndex("idx_events_status", false, "status", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
