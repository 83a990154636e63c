package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps sessions in Redis so they survive restarts and are
// shared between instances. Keys expire with the session.
type RedisSessionStore struct {
	rdb    *redis.Client
	prefix string
	now    func() time.Time
}

// RedisSessionOption configures a RedisSessionStore.
type RedisSessionOption func(*RedisSessionStore)

// WithSessionPrefix sets the key prefix (default "condo:session").
func WithSessionPrefix(prefix string) RedisSessionOption {
	return func(s *RedisSessionStore) { s.prefix = strings.Trim(prefix, ":") }
}

// NewRedisSessionStore wraps an existing client.
func NewRedisSessionStore(rdb *redis.Client, opts ...RedisSessionOption) *RedisSessionStore {
	s := &RedisSessionStore{
		rdb:    rdb,
		prefix: "condo:session",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisSessionStore) key(token string) string {
	return s.prefix + ":" + token
}

func (s *RedisSessionStore) Save(ctx context.Context, sess Session) error {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return s.Delete(ctx, sess.Token)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(sess.Token), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Touch rewrites the session with SET XX so a key deleted by Logout stays
// deleted.
func (s *RedisSessionStore) Touch(ctx context.Context, sess Session) error {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return s.Delete(ctx, sess.Token)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	ok, err := s.rdb.SetXX(ctx, s.key(sess.Token), data, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to refresh session: %w", err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, token string) (Session, error) {
	data, err := s.rdb.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("failed to decode session: %w", err)
	}
	return sess, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	n, err := s.rdb.Del(ctx, s.key(token)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// NewRedisClient connects to addr and pings it.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping error: %w", err)
	}
	return rdb, nil
}
