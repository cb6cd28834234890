// Package llm provides the client used by the pipeline stages to talk to an
// ai.Provider. The client composes a middleware chain — retry with
// exponential backoff, per-call timeouts, span-and-metric observability —
// around the raw provider call, and exposes [Client.CompleteJSON] for
// schema-guided completions.
package llm
