package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSessionNotFound is returned for unknown or already removed tokens.
var ErrSessionNotFound = errors.New("session not found")

// User is the identity carried by a session.
type User struct {
	ID     string `json:"id"`
	Nome   string `json:"nome"`
	Email  string `json:"email"`
	Perfil string `json:"perfil"`
	Avatar string `json:"avatar,omitempty"`
}

// HasRole reports whether the user's perfil is one of roles.
func (u User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.Perfil == r {
			return true
		}
	}
	return false
}

// Session is a signed-in user. ExpiresAt is absolute; LastSeen drives the
// idle timeout.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	LastSeen  time.Time `json:"lastSeen"`
}

// Expired reports whether the session is past its lifetime or was idle
// longer than idle. A zero idle disables the idle check.
func (s Session) Expired(now time.Time, idle time.Duration) bool {
	if !now.Before(s.ExpiresAt) {
		return true
	}
	return idle > 0 && now.Sub(s.LastSeen) >= idle
}

// SessionStore persists sessions by token. Touch overwrites a session only
// while its token is still stored and returns ErrSessionNotFound otherwise,
// so a refresh never brings back a session that was logged out.
type SessionStore interface {
	Save(ctx context.Context, s Session) error
	Touch(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

// MemorySessionStore keeps sessions in process memory.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemorySessionStore creates an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]Session)}
}

func (m *MemorySessionStore) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s
	return nil
}

func (m *MemorySessionStore) Touch(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.Token]; !ok {
		return ErrSessionNotFound
	}
	m.sessions[s.Token] = s
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, token string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[token]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, token)
	return nil
}

// Sweep drops sessions that are expired at now and returns how many went.
func (m *MemorySessionStore) Sweep(now time.Time, idle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for token, s := range m.sessions {
		if s.Expired(now, idle) {
			delete(m.sessions, token)
			n++
		}
	}
	return n
}

// Len returns the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
