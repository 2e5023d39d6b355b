package utils

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePassID_Format(t *testing.T) {
	passID, err := GeneratePassID()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(passID, "PASS-"))
	assert.Len(t, passID, len("PASS-")+20) // 10 bytes hex encoded
	assert.Equal(t, strings.ToUpper(passID), passID)
}

func TestGeneratePassID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		passID, err := GeneratePassID()
		require.NoError(t, err)
		assert.False(t, seen[passID], "duplicate pass id %s", passID)
		seen[passID] = true
	}
}

func TestQRPayload(t *testing.T) {
	payload := QRPayload("PASS-ABC123", 42, 1007)
	assert.Equal(t, "TKT|PASS-ABC123|42|1007", payload)
}

func TestGenerateDeviceKey_RoundTrip(t *testing.T) {
	plaintext, hash, err := GenerateDeviceKey()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(plaintext, "SCN-"))
	assert.NotEqual(t, plaintext, hash)
	assert.True(t, CheckDeviceKey(hash, plaintext))
	assert.False(t, CheckDeviceKey(hash, "SCN-WRONG"))
}

func TestCircuitBreaker_ExecuteSuccess(t *testing.T) {
	cb := NewCircuitBreaker("test", DefaultSettings())

	result, err := cb.Execute(context.Background(), func() (any, error) {
		return "success", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_TripsOnFailureRatio(t *testing.T) {
	cb := NewCircuitBreaker("test", Settings{
		MaxRequests:  5,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		FailureRatio: 0.6,
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := cb.Execute(ctx, func() (any, error) { return "ok", nil })
		require.NoError(t, err)
	}
	for i := 0; i < 4; i++ {
		cb.Execute(ctx, func() (any, error) { return nil, errors.New("boom") })
	}

	assert.Equal(t, StateOpen, cb.State())

	_, err := cb.Execute(ctx, func() (any, error) {
		t.Fatal("must not execute while open")
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_RecoversAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker("test", Settings{
		MaxRequests:  2,
		Interval:     time.Minute,
		Timeout:      50 * time.Millisecond,
		FailureRatio: 0.5,
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		cb.Execute(ctx, func() (any, error) { return nil, errors.New("boom") })
	}
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(80 * time.Millisecond)

	_, err := cb.Execute(ctx, func() (any, error) { return "recovered", nil })
	require.NoError(t, err)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_ConcurrentAccess(t *testing.T) {
	cb := NewCircuitBreaker("concurrent", DefaultSettings())
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, err := cb.Execute(ctx, func() (any, error) {
				if id%10 == 0 {
					return nil, errors.New("simulated failure")
				}
				return "ok", nil
			})
			if err == nil {
				mu.Lock()
				successCount++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 90, successCount)
}

func TestRedisHealthCheck(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectPing().SetVal("PONG")

	require.NoError(t, RedisHealthCheck(db))
	require.NoError(t, mock.ExpectationsWereMet())

	db, mock = redismock.NewClientMock()
	mock.ExpectPing().SetErr(errors.New("connection refused"))

	err := RedisHealthCheck(db)
	assert.ErrorContains(t, err, "redis health check failed")
}
