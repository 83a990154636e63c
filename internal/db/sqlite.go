package db

import (
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var sqliteQueries = queries{
	migrate: []string{
		`CREATE TABLE IF NOT EXISTS documents (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			resource TEXT NOT NULL,
			id TEXT NOT NULL,
			data TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (resource, id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_resource ON documents(resource, seq);`,
	},
	list:   `SELECT id, data FROM documents WHERE resource = ? ORDER BY seq`,
	get:    `SELECT data FROM documents WHERE resource = ? AND id = ?`,
	insert: `INSERT INTO documents (resource, id, data) VALUES (?, ?, ?) ON CONFLICT (resource, id) DO NOTHING`,
	update: `UPDATE documents SET data = ?, updated_at = CURRENT_TIMESTAMP WHERE resource = ? AND id = ?`,
	delete: `DELETE FROM documents WHERE resource = ? AND id = ?`,
	count:  `SELECT COUNT(*) FROM documents WHERE resource = ?`,
}

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	*sqlStore
}

// NewSQLiteStore opens (or creates) the database file at path and applies migrations
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	s, err := openSQL("sqlite", path, sqliteQueries)
	if err != nil {
		return nil, err
	}
	// SQLite serialises writers; a single connection avoids SQLITE_BUSY.
	s.db.SetMaxOpenConns(1)
	return &SQLiteStore{sqlStore: s}, nil
}
