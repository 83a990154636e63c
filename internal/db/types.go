package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no document has the requested id.
	ErrNotFound = errors.New("document not found")
	// ErrConflict is returned when creating a document whose id is taken.
	ErrConflict = errors.New("document already exists")
)

// Document is one stored record. Data is the record's JSON encoding.
type Document struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// Store is the repository behind every collection. Documents are grouped by
// resource name and listed in insertion order.
type Store interface {
	List(ctx context.Context, resource string) ([]Document, error)
	Get(ctx context.Context, resource, id string) (Document, error)
	Create(ctx context.Context, resource string, doc Document) error
	Update(ctx context.Context, resource string, doc Document) error
	Delete(ctx context.Context, resource, id string) error
	Count(ctx context.Context, resource string) (int, error)

	Close() error
}

// ListAs decodes every document of resource into T.
func ListAs[T any](ctx context.Context, s Store, resource string) ([]T, error) {
	docs, err := s.List(ctx, resource)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := json.Unmarshal(d.Data, &v); err != nil {
			return nil, fmt.Errorf("failed to decode %s/%s: %w", resource, d.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// GetAs decodes a single document into T.
func GetAs[T any](ctx context.Context, s Store, resource, id string) (T, error) {
	var v T
	d, err := s.Get(ctx, resource, id)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(d.Data, &v); err != nil {
		return v, fmt.Errorf("failed to decode %s/%s: %w", resource, id, err)
	}
	return v, nil
}

// Encode wraps v as a document with the given id.
func Encode(id string, v any) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Document{}, fmt.Errorf("failed to encode document %s: %w", id, err)
	}
	return Document{ID: id, Data: data}, nil
}

// Put stores v under id, replacing any existing document.
func Put[T any](ctx context.Context, s Store, resource, id string, v T) error {
	doc, err := Encode(id, v)
	if err != nil {
		return err
	}
	err = s.Update(ctx, resource, doc)
	if errors.Is(err, ErrNotFound) {
		return s.Create(ctx, resource, doc)
	}
	return err
}

func validate(resource string, doc Document) error {
	if resource == "" {
		return errors.New("resource is required")
	}
	if doc.ID == "" {
		return errors.New("document id is required")
	}
	if !json.Valid(doc.Data) {
		return fmt.Errorf("document %s is not valid JSON", doc.ID)
	}
	return nil
}
