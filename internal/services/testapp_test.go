package services

import (
	"testing"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tests"
	"github.com/stretchr/testify/require"
)

// newTestApp boots an isolated PocketBase instance with the collections
// the service tests touch. Only the fields the services read or write are
// declared.
func newTestApp(t *testing.T) *tests.TestApp {
	t.Helper()

	app, err := tests.NewTestApp()
	require.NoError(t, err)
	t.Cleanup(app.Cleanup)

	counters := core.NewBaseCollection("counters")
	counters.Fields.Add(
		&core.TextField{Name: "name", Required: true},
		&core.NumberField{Name: "value", OnlyInt: true},
	)
	// the sequence upsert relies on ON CONFLICT(name)
	counters.AddIndex("idx_counters_name", true, "name", "")
	require.NoError(t, app.Save(counters))

	organizers := core.NewBaseCollection("organizers")
	organizers.Fields.Add(
		&core.TextField{Name: "name"},
		&core.SelectField{
			Name:      "status",
			Values:    []string{"pending", "approved", "rejected"},
			MaxSelect: 1,
		},
	)
	require.NoError(t, app.Save(organizers))

	events := core.NewBaseCollection("events")
	events.Fields.Add(
		&core.TextField{Name: "title"},
		&core.RelationField{Name: "organizer", CollectionId: organizers.Id, MaxSelect: 1},
	)
	require.NoError(t, app.Save(events))

	tickets := core.NewBaseCollection("tickets")
	tickets.Fields.Add(
		&core.TextField{Name: "pass_id"},
		&core.NumberField{Name: "ticket_no", OnlyInt: true},
		&core.RelationField{Name: "event", CollectionId: events.Id, MaxSelect: 1},
		&core.TextField{Name: "attendee_name"},
		&core.BoolField{Name: "is_validated"},
		&core.BoolField{Name: "revoked"},
		&core.DateField{Name: "validation_time"},
	)
	require.NoError(t, app.Save(tickets))

	return app
}

func saveTestRecord(t *testing.T, app core.App, collection string, fields map[string]any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collection)
	require.NoError(t, err)

	record := core.NewRecord(col)
	for name, value := range fields {
		record.Set(name, value)
	}
	require.NoError(t, app.Save(record))
	return record
}
