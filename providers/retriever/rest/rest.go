package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/opencampus/coursegen/internal/utils"
	"github.com/opencampus/coursegen/providers/retriever"
)

const searchEndpoint = "/search"

// Retriever queries an HTTP vector-search service. The expected contract is a
// POST to <baseURL>/search with {"query": ..., "top_k": ...} answered by
// {"results": [{"text": ..., "score": ..., "metadata": {...}}]}, which is the
// shape most self-hosted embedding-search sidecars expose.
type Retriever struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ retriever.Provider = (*Retriever)(nil)

// New creates a Retriever for the service at baseURL.
func New(baseURL string) *Retriever {
	return &Retriever{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// WithAPIKey sets the bearer token sent with every request.
func (r *Retriever) WithAPIKey(apiKey string) *Retriever {
	r.apiKey = apiKey
	return r
}

// WithHttpClient sets a custom HTTP client.
func (r *Retriever) WithHttpClient(client *http.Client) *Retriever {
	r.client = client
	return r
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type searchResult struct {
	Text     string         `json:"text"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

// Search implements retriever.Provider.
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]retriever.Chunk, error) {
	if r.baseURL == "" {
		return nil, fmt.Errorf("rest retriever: base URL is not set")
	}
	if k <= 0 {
		return []retriever.Chunk{}, nil
	}

	_, resp, err := utils.DoPostSync[searchResponse](ctx, r.client, r.baseURL+searchEndpoint, r.apiKey, searchRequest{
		Query: query,
		TopK:  k,
	})
	if err != nil {
		return nil, fmt.Errorf("rest retriever: search: %w", err)
	}

	chunks := make([]retriever.Chunk, 0, len(resp.Results))
	for _, result := range resp.Results {
		metadata := result.Metadata
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata["score"] = result.Score
		chunks = append(chunks, retriever.Chunk{Text: result.Text, Metadata: metadata})
	}
	return chunks, nil
}
