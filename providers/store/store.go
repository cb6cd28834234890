package store

import "context"

// Provider is a minimal string key-value store used for memoizing generated
// chapter content and persisting finished documents. It is a memoization
// cache, not a transactional system: last writer wins, and callers must
// arrange for distinct concurrent tasks to own distinct keys.
type Provider interface {
	// Get returns the value stored under key. The boolean reports whether
	// the key exists; a missing key is not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, overwriting any existing value.
	Set(ctx context.Context, key string, value string) error
}
