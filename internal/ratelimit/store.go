// Package ratelimit throttles repeated requests per client with a token
// bucket kept for every key.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Store keeps one limiter per key and forgets keys that go idle.
type Store struct {
	mu           sync.Mutex
	entries      map[string]*entry
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

type entry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithIdleTTL sets how long an unused key is kept.
func WithIdleTTL(d time.Duration) StoreOption {
	return func(s *Store) { s.idleTTL = d }
}

// WithCleanupEvery sets the janitor interval. Zero disables the janitor.
func WithCleanupEvery(d time.Duration) StoreOption {
	return func(s *Store) { s.cleanupEvery = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore allows rps events per second per key with the given burst.
func NewStore(rps float64, burst int, opts ...StoreOption) *Store {
	if burst < 1 {
		burst = 1
	}
	s := &Store{
		entries:      make(map[string]*entry),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) RPS() float64 { return float64(s.rps) }
func (s *Store) Burst() int   { return s.burst }

// Allow reports whether key may proceed now. When it may not, the returned
// duration is how long until the next token.
func (s *Store) Allow(key string) (bool, time.Duration) {
	now := s.now()
	lim := s.limiter(key, now)

	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (s *Store) limiter(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		e.lastSeen = now
		return e.lim
	}
	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[key] = &entry{lim: lim, lastSeen: now}
	return lim
}

// Len returns the number of tracked keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Cleanup drops keys not seen within the idle TTL.
func (s *Store) Cleanup() int {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// StartJanitor runs Cleanup periodically until ctx is cancelled.
func (s *Store) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}
