package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/opencampus/coursegen/providers/store"
)

// defaultKeyPrefix namespaces pipeline keys so a shared Redis instance is safe.
const defaultKeyPrefix = "coursegen:"

// Store implements store.Provider backed by Redis. Thread safety is handled
// by the underlying go-redis client; no application-level locking is needed.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ store.Provider = (*Store)(nil)

// Option configures optional Store behavior.
type Option func(*Store)

// WithKeyPrefix overrides the default key prefix ("coursegen:").
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTTL sets an expiry on every written key. Zero (the default) means keys
// never expire; generated chapters are cheap to keep and expensive to rebuild.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// New creates a Redis-backed store around an existing client.
func New(client *redis.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the value stored under key. A missing key reports exists=false
// with a nil error.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redisstore: get %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, applying the configured TTL.
func (s *Store) Set(ctx context.Context, key string, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redisstore: set %q: %w", key, err)
	}
	return nil
}
