// Package mockapi is the simulated backend behind the dashboard. It stores
// records in a db.Store and can add latency and random failures to every call
// so the error and loading paths of the UI can be exercised.
package mockapi

import (
	"context"
	"hash/fnv"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"condo/internal/db"
	apperrors "condo/internal/errors"
	"condo/internal/metrics"
	"condo/internal/model"
)

// Service is the mock API. It is safe for concurrent use.
type Service struct {
	store   db.Store
	metrics *metrics.Metrics
	hash    func(string) (string, error)

	mu       sync.RWMutex
	cfg      Config
	defaults Config

	// records serializes read-modify-write cycles per record; users also
	// guards e-mail uniqueness across accounts.
	records [32]sync.Mutex
	users   sync.Mutex

	rnd   func() float64
	sleep func(context.Context, time.Duration) error
	now   func() time.Time
	newID func() string
}

// Option configures a Service.
type Option func(*Service)

// WithConfig replaces DefaultConfig. ResetConfig returns to this value.
func WithConfig(c Config) Option {
	return func(s *Service) {
		s.cfg = c.clone()
		s.defaults = c.clone()
	}
}

// WithMetrics records writes and injected errors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithPasswordHasher hashes passwords of created or updated users.
func WithPasswordHasher(h func(string) (string, error)) Option {
	return func(s *Service) { s.hash = h }
}

// WithRand sets the source of the injection rolls.
func WithRand(r func() float64) Option {
	return func(s *Service) { s.rnd = r }
}

// WithSleep sets how simulated latency is waited out.
func WithSleep(f func(context.Context, time.Duration) error) Option {
	return func(s *Service) { s.sleep = f }
}

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDs sets the id generator for created records.
func WithIDs(f func() string) Option {
	return func(s *Service) { s.newID = f }
}

// New creates a Service over store.
func New(store db.Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		cfg:      DefaultConfig(),
		defaults: DefaultConfig(),
		rnd:      rand.Float64,
		sleep:    sleepContext,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) recordLock(r model.Resource, id string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(r.String() + "/" + id))
	return &s.records[h.Sum32()%uint32(len(s.records))]
}

// Store returns the underlying store.
func (s *Service) Store() db.Store { return s.store }

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// simulate waits out the configured delay and then may fail the call.
func (s *Service) simulate(ctx context.Context, op string, r model.Resource) error {
	cfg := s.Config()
	if !cfg.Enabled {
		return nil
	}
	if err := s.sleep(ctx, cfg.Delay); err != nil {
		return apperrors.Wrap(apperrors.KindTimeout, "Tempo esgotado", err)
	}
	if err := s.inject(cfg); err != nil {
		slog.Debug("mock error injected", "op", op, "resource", r, "kind", err.Kind)
		s.metrics.RecordInjectedError(string(err.Kind))
		return err
	}
	return nil
}

// inject rolls once against ErrorProbability and once more to pick the
// kind from the cumulative ErrorTypes shares. Shares that sum below 1 leave
// room for no error at all.
func (s *Service) inject(cfg Config) *apperrors.AppError {
	if !cfg.SimulateRandomErrors {
		return nil
	}
	if s.rnd() >= cfg.ErrorProbability {
		return nil
	}
	roll := s.rnd()
	cumulative := 0.0
	for _, et := range cfg.ErrorTypes {
		cumulative += et.Probability
		if roll <= cumulative {
			return injectedError(et.Type)
		}
	}
	return nil
}

func injectedError(kind apperrors.Kind) *apperrors.AppError {
	switch kind {
	case apperrors.KindNetwork:
		return apperrors.New(kind, "Network Error")
	case apperrors.KindTimeout:
		return apperrors.New(kind, "Timeout Error")
	case apperrors.KindAuth:
		return apperrors.New(kind, "Unauthorized")
	case apperrors.KindForbidden:
		return apperrors.New(kind, "Forbidden")
	case apperrors.KindValidation:
		err := apperrors.Validation(map[string]string{"field": "Invalid value"})
		err.Message = "Validation Error"
		return err
	default:
		return apperrors.New(apperrors.KindServer, "Internal Server Error")
	}
}
