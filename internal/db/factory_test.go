package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	t.Run("default is memory", func(t *testing.T) {
		s, err := NewStore(StoreConfig{})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &MemoryStore{}, s)
	})

	t.Run("sqlite", func(t *testing.T) {
		s, err := NewStore(StoreConfig{Type: "SQLite", ConnectionString: filepath.Join(t.TempDir(), "x.db")})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &SQLiteStore{}, s)
	})

	t.Run("postgres requires dsn", func(t *testing.T) {
		_, err := NewStore(StoreConfig{Type: "postgres"})
		assert.Error(t, err)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := NewStore(StoreConfig{Type: "mongo"})
		assert.ErrorContains(t, err, "unsupported store type")
	})
}
