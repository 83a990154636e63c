package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time           { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *clock {
	return &clock{t: time.Date(2023, 5, 12, 10, 0, 0, 0, time.UTC)}
}

func TestStore_AllowsBurstThenRejects(t *testing.T) {
	c := newClock()
	s := NewStore(1, 2, WithClock(c.now))

	ok, _ := s.Allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = s.Allow("10.0.0.1")
	assert.True(t, ok)

	ok, wait := s.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Greater(t, wait, time.Duration(0))
	assert.LessOrEqual(t, wait, time.Second)

	// other keys have their own bucket
	ok, _ = s.Allow("10.0.0.2")
	assert.True(t, ok)
}

func TestStore_RefillsOverTime(t *testing.T) {
	c := newClock()
	s := NewStore(1, 1, WithClock(c.now))

	ok, _ := s.Allow("k")
	require.True(t, ok)
	ok, _ = s.Allow("k")
	require.False(t, ok)

	c.advance(1100 * time.Millisecond)
	ok, _ = s.Allow("k")
	assert.True(t, ok)
}

func TestStore_RejectionDoesNotConsumeTokens(t *testing.T) {
	c := newClock()
	s := NewStore(1, 1, WithClock(c.now))

	ok, _ := s.Allow("k")
	require.True(t, ok)
	for range 5 {
		ok, _ = s.Allow("k")
		require.False(t, ok)
	}

	c.advance(1100 * time.Millisecond)
	ok, _ = s.Allow("k")
	assert.True(t, ok)
}

func TestStore_BurstDefaultsToOne(t *testing.T) {
	s := NewStore(1, 0)
	assert.Equal(t, 1, s.Burst())
	assert.Equal(t, 1.0, s.RPS())
}

func TestStore_Cleanup(t *testing.T) {
	c := newClock()
	s := NewStore(1, 1, WithClock(c.now), WithIdleTTL(time.Minute))

	s.Allow("old")
	c.advance(2 * time.Minute)
	s.Allow("fresh")

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.Cleanup())
	assert.Equal(t, 1, s.Len())
}

func TestStore_StartJanitorStopsWithContext(t *testing.T) {
	s := NewStore(1, 1, WithIdleTTL(time.Nanosecond), WithCleanupEvery(5*time.Millisecond))
	s.Allow("k")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.StartJanitor(ctx)

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestStore_StartJanitorDisabled(t *testing.T) {
	s := NewStore(1, 1, WithCleanupEvery(0))
	s.StartJanitor(context.Background())
	s.Allow("k")
	assert.Equal(t, 1, s.Len())
}
