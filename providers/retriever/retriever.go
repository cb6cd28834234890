package retriever

import "context"

// Chunk is an opaque unit of retrieved context: a span of source text plus
// whatever metadata the backing store attached to it (source document, page,
// similarity score). Chunks are immutable once produced.
type Chunk struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Provider is the semantic-search interface the pipeline consumes. Search
// returns up to k chunks relevant to query, most relevant first.
//
// Callers treat retrieval as an enhancement, not a requirement: any error is
// degraded to an empty result at the call site, so implementations should
// return their real errors and let the pipeline decide.
type Provider interface {
	Search(ctx context.Context, query string, k int) ([]Chunk, error)
}
