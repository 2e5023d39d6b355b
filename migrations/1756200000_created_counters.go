package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

// counters backs the named monotonic sequences. Rows are only ever
// touched through the single-statement upsert in the sequence service.
func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("counters")

		collection.Fields.Add(
			&core.TextField{Name: "name", Required: true, Max: 100},
			&core.NumberField{Name: "value", OnlyInt: true},
		)

		collection.AddIndex("idx_counters_name", true, "name", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("counters")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
