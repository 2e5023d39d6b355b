package services

import (
	"context"
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/security"
)

// SequenceService mints monotonically increasing integer identifiers per
// sequence name, persisted in the counters collection. The upsert runs as a
// single statement on the serialized write connection, so two concurrent
// callers can never observe the same value. Gaps are acceptable (a caller
// may fail after minting), duplicates are not.
type SequenceService struct {
	app core.App
}

func NewSequenceService(app core.App) *SequenceService {
	return &SequenceService{app: app}
}

// Next returns the next value for the named sequence, starting at 1.
func (s *SequenceService) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	err := s.app.NonconcurrentDB().
		NewQuery(`INSERT INTO counters (id, name, value) VALUES ({:id}, {:name}, 1)
			ON CONFLICT(name) DO UPDATE SET value = counters.value + 1
			RETURNING value`).
		Bind(dbx.Params{
			"id":   security.RandomString(15),
			"name": name,
		}).
		WithContext(ctx).
		Row(&value)
	if err != nil {
		return 0, fmt.Errorf("sequence %q: %w", name, err)
	}
	return value, nil
}

// NextEventComponent mints an identifier that only needs to be unique
// within one event (embedded categories and ticket types).
func (s *SequenceService) NextEventComponent(ctx context.Context, eventNo int64, component string) (int64, error) {
	return s.Next(ctx, fmt.Sprintf("event:%d:%s", eventNo, component))
}
