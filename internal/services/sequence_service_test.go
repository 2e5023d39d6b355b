package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceNext(t *testing.T) {
	app := newTestApp(t)
	seq := NewSequenceService(app)
	ctx := context.Background()

	value, err := seq.Next(ctx, "accounts")
	require.NoError(t, err)
	assert.Equal(t, int64(1), value)

	value, err = seq.Next(ctx, "accounts")
	require.NoError(t, err)
	assert.Equal(t, int64(2), value)

	// each named sequence advances on its own
	value, err = seq.Next(ctx, "events")
	require.NoError(t, err)
	assert.Equal(t, int64(1), value)
}

func TestSequenceNextConcurrentUniqueness(t *testing.T) {
	app := newTestApp(t)
	seq := NewSequenceService(app)

	const n = 32
	values := make(chan int64, n)
	errs := make(chan error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := seq.Next(context.Background(), "tickets")
			if err != nil {
				errs <- err
				return
			}
			values <- value
		}()
	}
	wg.Wait()
	close(values)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	seen := make(map[int64]bool, n)
	for value := range values {
		assert.False(t, seen[value], "value %d minted twice", value)
		seen[value] = true
	}
	require.Len(t, seen, n)
	for i := int64(1); i <= n; i++ {
		assert.True(t, seen[i], "missing value %d", i)
	}
}
