package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"condo/internal/auth"
	"condo/internal/config"
	"condo/internal/db"
	"condo/internal/metrics"
	"condo/internal/mockapi"
	"condo/internal/model"
)

// app is what every command needs: the settings, the store and the mock API
// over it.
type app struct {
	cfg   config.Config
	store db.Store
	api   *mockapi.Service
}

// newStore is swapped in tests to avoid touching disk.
var newStore = db.NewStore

// hashPassword is swapped in tests for a cheaper bcrypt cost.
var hashPassword = auth.HashPassword

// openApp opens the configured store, seeds it when empty and builds the mock
// API. m may be nil.
func openApp(ctx context.Context, m *metrics.Metrics) (*app, error) {
	cfg := config.FromViper(viper.GetViper())

	store, err := newStore(storeConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	seeded, err := mockapi.LoadIfEmpty(ctx, store, model.Seed(), hashPassword)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}
	if seeded {
		slog.Info("Seeded empty store", "type", cfg.Store.Type)
	}

	api := mockapi.New(store,
		mockapi.WithConfig(mockConfig(cfg.Mock)),
		mockapi.WithMetrics(m),
		mockapi.WithPasswordHasher(hashPassword),
	)
	return &app{cfg: cfg, store: store, api: api}, nil
}

func storeConfig() db.StoreConfig {
	return db.StoreConfig{
		Type:             viper.GetString("store.type"),
		ConnectionString: viper.GetString("store.dsn"),
	}
}

func (a *app) Close() error {
	return a.store.Close()
}

// mockConfig turns the mock.* settings into the API's runtime config.
func mockConfig(c config.MockConfig) mockapi.Config {
	mc := mockapi.DefaultConfig()
	mc.Enabled = c.Enabled
	mc.Delay = c.Delay
	mc.SimulateRandomErrors = c.RandomErrors
	mc.ErrorProbability = c.ErrorProbability
	return mc
}
