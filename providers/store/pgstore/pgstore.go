package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/opencampus/coursegen/providers/store"
)

// defaultTableName is the PostgreSQL table used when no custom name is provided.
const defaultTableName = "coursegen_cache"

// Querier abstracts the pgx query methods needed by Store. Both *pgxpool.Pool
// and pgx.Tx satisfy this interface, allowing callers to inject either a
// connection pool or a single transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements store.Provider with PostgreSQL persistence. Thread safety
// is handled by the underlying pgx connection pool; no application-level
// mutex is needed.
type Store struct {
	db        Querier
	tableName string
}

var _ store.Provider = (*Store)(nil)

// Option configures optional Store behavior.
type Option func(*Store)

// WithTableName overrides the default table name ("coursegen_cache"). The
// name is sanitized via pgx.Identifier to prevent SQL injection, since it is
// interpolated into queries via fmt.Sprintf.
func WithTableName(name string) Option {
	return func(s *Store) {
		s.tableName = pgx.Identifier{name}.Sanitize()
	}
}

// New creates a PostgreSQL-backed store. The db parameter must be a
// pgx-compatible query executor (typically *pgxpool.Pool).
func New(db Querier, opts ...Option) *Store {
	s := &Store{
		db:        db,
		tableName: defaultTableName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// createTableSQL holds one row per cache key. updated_at exists for manual
// inspection and cleanup jobs; the pipeline itself never reads it.
const createTableSQL = `CREATE TABLE IF NOT EXISTS %s (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// EnsureSchema creates the cache table if it does not already exist. This is
// a convenience helper for development and prototyping; production
// deployments should manage schema through proper migration tooling.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, fmt.Sprintf(createTableSQL, s.tableName)); err != nil {
		return fmt.Errorf("pgstore: create table: %w", err)
	}
	return nil
}

// Get returns the value stored under key. A missing row reports exists=false
// with a nil error.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, s.tableName)

	var value string
	err := s.db.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("pgstore: get %q: %w", key, err)
	}
	return value, true, nil
}

// Set upserts value under key.
func (s *Store) Set(ctx context.Context, key string, value string) error {
	query := fmt.Sprintf(`INSERT INTO %s (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`, s.tableName)

	if _, err := s.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("pgstore: set %q: %w", key, err)
	}
	return nil
}
