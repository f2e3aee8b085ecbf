package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(16)
	require.NoError(t, err)

	// 16 random bytes hex-encoded, uppercased.
	assert.Len(t, code, 32)
	assert.Regexp(t, "^[0-9A-F]+$", code)
}

func TestGenerateCode_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateCode(16)
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestCircuitBreaker_PassesThroughSuccess(t *testing.T) {
	cb := NewCircuitBreaker("test")

	result, err := cb.Execute(context.Background(), func() (any, error) {
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
}

func TestCircuitBreaker_PropagatesError(t *testing.T) {
	cb := NewCircuitBreaker("test")
	sentinel := errors.New("publish failed")

	_, err := cb.Execute(context.Background(), func() (any, error) {
		return nil, sentinel
	})

	assert.ErrorIs(t, err, sentinel)
}

func TestCircuitBreaker_TripsAfterFailureRatio(t *testing.T) {
	cb := NewCircuitBreaker("test")
	fail := func() (any, error) { return nil, errors.New("down") }

	// Drive enough failures through to cross the ratio threshold.
	for i := 0; i < 100; i++ {
		_, _ = cb.Execute(context.Background(), fail)
	}

	_, err := cb.Execute(context.Background(), func() (any, error) {
		t.Fatal("request must not run while the breaker is open")
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrBreakerOpen)
}

func TestCircuitBreaker_HalfOpenProbeCloses(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker("test")
	cb.now = func() time.Time { return now }

	fail := func() (any, error) { return nil, errors.New("down") }
	for i := 0; i < 100; i++ {
		_, _ = cb.Execute(context.Background(), fail)
	}
	_, err := cb.Execute(context.Background(), fail)
	require.ErrorIs(t, err, ErrBreakerOpen)

	// After the cooldown a probe runs; its success closes the breaker.
	now = now.Add(61 * time.Second)
	result, err := cb.Execute(context.Background(), func() (any, error) {
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", result)

	_, err = cb.Execute(context.Background(), func() (any, error) { return nil, nil })
	assert.NoError(t, err)
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker("test")
	cb.now = func() time.Time { return now }

	fail := func() (any, error) { return nil, errors.New("down") }
	for i := 0; i < 100; i++ {
		_, _ = cb.Execute(context.Background(), fail)
	}

	now = now.Add(61 * time.Second)
	_, err := cb.Execute(context.Background(), fail)
	require.EqualError(t, err, "down")

	_, err = cb.Execute(context.Background(), func() (any, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrBreakerOpen)
}
