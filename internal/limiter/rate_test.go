package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewRateLimiter(2)
	r.now = func() time.Time { return clock }

	assert.True(t, r.Allow())
	assert.True(t, r.Allow())
	assert.False(t, r.Allow())

	clock = clock.Add(500 * time.Millisecond)
	assert.False(t, r.Allow())

	// Both first requests fall out of the window.
	clock = clock.Add(600 * time.Millisecond)
	assert.True(t, r.Allow())
	assert.True(t, r.Allow())
	assert.False(t, r.Allow())
}

func TestRateLimiter_MinimumOne(t *testing.T) {
	r := NewRateLimiter(0)
	assert.True(t, r.Allow())
	assert.False(t, r.Allow())
}

func TestRateLimiter_WaitCancelled(t *testing.T) {
	r := NewRateLimiter(1)
	assert.True(t, r.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := r.Wait(ctx, 10*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_WaitSucceeds(t *testing.T) {
	r := NewRateLimiter(1)
	assert.True(t, r.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	start := time.Now()
	assert.NoError(t, r.Wait(ctx, 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 900*time.Millisecond)
}
