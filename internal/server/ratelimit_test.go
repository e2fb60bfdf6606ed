package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIPRateLimiter_PerClientBudget(t *testing.T) {
	l := newIPRateLimiter(0.001, 2)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))

	// Other clients have their own bucket
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestIPRateLimiter_Disabled(t *testing.T) {
	l := newIPRateLimiter(0, 0)

	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("10.0.0.1"))
	}
	assert.Zero(t, l.size())
}

func TestIPRateLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newIPRateLimiter(0.001, 1)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))
	assert.Equal(t, 2, l.size())

	// 10.0.0.2 stays active, 10.0.0.1 goes idle
	now = now.Add(limiterIdleTTL / 2)
	l.Allow("10.0.0.2")

	now = now.Add(limiterIdleTTL/2 + time.Second)
	l.Allow("10.0.0.3")

	assert.Equal(t, 2, l.size())

	// An evicted client starts over with a full bucket
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestIPRateLimiter_SweepIsThrottled(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newIPRateLimiter(0.001, 1)
	l.idleTTL = time.Second
	l.now = func() time.Time { return now }

	l.Allow("10.0.0.1")

	// Idle long enough, but the last sweep was too recent
	now = now.Add(2 * time.Second)
	l.Allow("10.0.0.2")
	assert.Equal(t, 2, l.size())

	now = now.Add(limiterSweepEvery)
	l.Allow("10.0.0.3")
	assert.Equal(t, 1, l.size())
}
