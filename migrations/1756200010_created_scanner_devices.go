package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

// scanner_devices stores only the bcrypt hash of each device key. key_id
// is a short prefix of the plaintext used as the lookup index.
func init() {
	m.Register(func(app core.App) error {
		organizers, err := app.FindCollectionByNameOrId("organizers")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("scanner_devices")

		collection.Fields.Add(
			&core.RelationField{
				Name:          "organizer",
				CollectionId:  organizers.Id,
				Required:      true,
				MaxSelect:     1,
				CascadeDelete: true,
			},
			&core.TextField{Name: "name", Required: true, Max: 200},
			&core.TextField{Name: "key_id", Required: true, Max: 16},
			&core.TextField{Name: "key_hash", Required: true, Max: 100},
			&core.BoolField{Name: "active"},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		collection.AddIndex("idx_scanner_devices_key_id", false, "key_id", "")
		collection.AddIndex("idx_scanner_devices_organizer", false, "organizer", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("scanner_devices")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
