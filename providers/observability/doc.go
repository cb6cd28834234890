// Package observability defines the Provider interface for tracing, metrics,
// and structured logging across the generation pipeline. Callers hold a
// Provider and check it against nil; helpers like [SpanFromContext] make a
// missing observer a silent no-op so instrumentation never dictates control
// flow. The bundled slog implementation lives in
// [github.com/opencampus/coursegen/providers/observability/slogobs].
package observability
