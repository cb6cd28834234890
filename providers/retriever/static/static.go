package static

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/opencampus/coursegen/providers/retriever"
)

// Retriever is a concurrency-safe in-memory retriever that ranks chunks by
// keyword overlap with the query. It is not a real vector search; it exists
// for tests, offline development, and the document-upload path where the
// chunks were produced by ingestion rather than an external index.
type Retriever struct {
	mu     sync.RWMutex
	chunks []retriever.Chunk
}

var _ retriever.Provider = (*Retriever)(nil)

// New returns a Retriever serving the given chunks.
func New(chunks []retriever.Chunk) *Retriever {
	copied := make([]retriever.Chunk, len(chunks))
	copy(copied, chunks)
	return &Retriever{chunks: copied}
}

// Add appends chunks to the searchable set.
func (r *Retriever) Add(chunks ...retriever.Chunk) {
	r.mu.Lock()
	r.chunks = append(r.chunks, chunks...)
	r.mu.Unlock()
}

// Search ranks stored chunks by the number of query terms they contain and
// returns the top k. Chunks with no overlap are excluded. The returned error
// is always nil; it exists for interface compliance.
func (r *Retriever) Search(_ context.Context, query string, k int) ([]retriever.Chunk, error) {
	if k <= 0 {
		return []retriever.Chunk{}, nil
	}

	terms := tokenize(query)

	r.mu.RLock()
	type scored struct {
		chunk retriever.Chunk
		score int
		index int
	}
	matches := make([]scored, 0, len(r.chunks))
	for i, chunk := range r.chunks {
		s := score(chunk.Text, terms)
		if s > 0 {
			matches = append(matches, scored{chunk: chunk, score: s, index: i})
		}
	}
	r.mu.RUnlock()

	// Stable ranking: ties resolve in insertion order.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].index < matches[j].index
	})

	if len(matches) > k {
		matches = matches[:k]
	}

	results := make([]retriever.Chunk, len(matches))
	for i, m := range matches {
		results[i] = m.chunk
	}
	return results, nil
}

func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'()[]{}")
		if len(f) > 2 {
			terms = append(terms, f)
		}
	}
	return terms
}

func score(text string, terms []string) int {
	lower := strings.ToLower(text)
	total := 0
	for _, term := range terms {
		total += strings.Count(lower, term)
	}
	return total
}
