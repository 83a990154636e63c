package db

import (
	_ "github.com/lib/pq"
)

var postgresQueries = queries{
	migrate: []string{
		`CREATE TABLE IF NOT EXISTS documents (
			seq BIGSERIAL PRIMARY KEY,
			resource TEXT NOT NULL,
			id TEXT NOT NULL,
			data JSONB NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (resource, id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_resource ON documents(resource, seq);`,
	},
	list:   `SELECT id, data FROM documents WHERE resource = $1 ORDER BY seq`,
	get:    `SELECT data FROM documents WHERE resource = $1 AND id = $2`,
	insert: `INSERT INTO documents (resource, id, data) VALUES ($1, $2, $3) ON CONFLICT (resource, id) DO NOTHING`,
	update: `UPDATE documents SET data = $1, updated_at = CURRENT_TIMESTAMP WHERE resource = $2 AND id = $3`,
	delete: `DELETE FROM documents WHERE resource = $1 AND id = $2`,
	count:  `SELECT COUNT(*) FROM documents WHERE resource = $1`,
}

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	*sqlStore
}

// NewPostgresStore connects to dsn and applies migrations
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	s, err := openSQL("postgres", dsn, postgresQueries)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{sqlStore: s}, nil
}

