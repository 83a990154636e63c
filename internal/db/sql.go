package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// queries holds the dialect-specific statements. Argument order is the same
// for every dialect.
type queries struct {
	migrate []string
	list    string // resource
	get     string // resource, id
	insert  string // resource, id, data
	update  string // data, resource, id
	delete  string // resource, id
	count   string // resource
}

// sqlStore implements Store over database/sql. SQLiteStore and PostgresStore
// embed it with their own statements.
type sqlStore struct {
	db *sql.DB
	q  queries
}

func openSQL(driver, dsn string, q queries) (*sqlStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &sqlStore{db: db, q: q}
	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *sqlStore) migrate(ctx context.Context) error {
	for _, query := range s.q.migrate {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection
func (s *sqlStore) Close() error {
	return s.db.Close()
}

// List returns the documents of resource in insertion order.
func (s *sqlStore) List(ctx context.Context, resource string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, s.q.list, resource)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", resource, err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", resource, err)
		}
		docs = append(docs, Document{ID: id, Data: json.RawMessage(data)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", resource, err)
	}
	return docs, nil
}

// Get returns one document or ErrNotFound.
func (s *sqlStore) Get(ctx context.Context, resource, id string) (Document, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, s.q.get, resource, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to get %s/%s: %w", resource, id, err)
	}
	return Document{ID: id, Data: json.RawMessage(data)}, nil
}

// Create inserts a document. An existing (resource, id) pair yields ErrConflict.
func (s *sqlStore) Create(ctx context.Context, resource string, doc Document) error {
	if err := validate(resource, doc); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, s.q.insert, resource, doc.ID, string(doc.Data))
	if err != nil {
		return fmt.Errorf("failed to create %s/%s: %w", resource, doc.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to create %s/%s: %w", resource, doc.ID, err)
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// Update replaces the data of an existing document.
func (s *sqlStore) Update(ctx context.Context, resource string, doc Document) error {
	if err := validate(resource, doc); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, s.q.update, string(doc.Data), resource, doc.ID)
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", resource, doc.ID, err)
	}
	return expectOne(res)
}

// Delete removes a document.
func (s *sqlStore) Delete(ctx context.Context, resource, id string) error {
	res, err := s.db.ExecContext(ctx, s.q.delete, resource, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", resource, id, err)
	}
	return expectOne(res)
}

// Count returns the number of documents in resource.
func (s *sqlStore) Count(ctx context.Context, resource string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, s.q.count, resource).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", resource, err)
	}
	return n, nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
