package db

import (
	"bytes"
	"context"
	"errors"
	"sync"
)

type collection struct {
	order []string
	docs  map[string][]byte
}

// MemoryStore keeps documents in process memory. It is the default backend
// and the one tests use.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*collection
	closed      bool
}

var errClosed = errors.New("store is closed")

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*collection)}
}

func (s *MemoryStore) collection(resource string, create bool) *collection {
	c, ok := s.collections[resource]
	if !ok && create {
		c = &collection{docs: make(map[string][]byte)}
		s.collections[resource] = c
	}
	return c
}

// List returns copies of every document in insertion order.
func (s *MemoryStore) List(ctx context.Context, resource string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}

	c := s.collection(resource, false)
	if c == nil {
		return []Document{}, nil
	}
	out := make([]Document, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, Document{ID: id, Data: bytes.Clone(c.docs[id])})
	}
	return out, nil
}

// Get returns a copy of one document.
func (s *MemoryStore) Get(ctx context.Context, resource, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Document{}, errClosed
	}

	c := s.collection(resource, false)
	if c == nil {
		return Document{}, ErrNotFound
	}
	data, ok := c.docs[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Data: bytes.Clone(data)}, nil
}

// Create appends a new document.
func (s *MemoryStore) Create(ctx context.Context, resource string, doc Document) error {
	if err := validate(resource, doc); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}

	c := s.collection(resource, true)
	if _, exists := c.docs[doc.ID]; exists {
		return ErrConflict
	}
	c.docs[doc.ID] = bytes.Clone(doc.Data)
	c.order = append(c.order, doc.ID)
	return nil
}

// Update replaces an existing document in place.
func (s *MemoryStore) Update(ctx context.Context, resource string, doc Document) error {
	if err := validate(resource, doc); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}

	c := s.collection(resource, false)
	if c == nil {
		return ErrNotFound
	}
	if _, exists := c.docs[doc.ID]; !exists {
		return ErrNotFound
	}
	c.docs[doc.ID] = bytes.Clone(doc.Data)
	return nil
}

// Delete removes a document.
func (s *MemoryStore) Delete(ctx context.Context, resource, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}

	c := s.collection(resource, false)
	if c == nil {
		return ErrNotFound
	}
	if _, exists := c.docs[id]; !exists {
		return ErrNotFound
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Count returns the number of documents in resource.
func (s *MemoryStore) Count(ctx context.Context, resource string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, errClosed
	}
	c := s.collection(resource, false)
	if c == nil {
		return 0, nil
	}
	return len(c.order), nil
}

// Close drops every document. Further calls fail.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.collections = nil
	return nil
}
