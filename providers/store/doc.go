// Package store defines the key-value Provider interface the pipeline uses
// for chapter-level memoization. Implementations: in-process map
// (inmemory), Redis (redisstore), and PostgreSQL (pgstore).
package store
