package inmemory

import (
	"context"
	"sync"

	"github.com/opencampus/coursegen/providers/store"
)

// Store is a concurrency-safe in-memory key-value store. It uses RWMutex to
// guard access and is efficient for the read-heavy lookup pattern of the
// content stage. Data is lost when the process exits.
type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ store.Provider = (*Store)(nil)

// New returns a new, empty Store ready for immediate use.
func New() *Store {
	return &Store{data: map[string]string{}}
}

// Get returns the value stored under key. The returned error is always nil.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	value, exists := s.data[key]
	s.mu.RUnlock()
	return value, exists, nil
}

// Set stores value under key. The returned error is always nil.
func (s *Store) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	s.data[key] = value
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
