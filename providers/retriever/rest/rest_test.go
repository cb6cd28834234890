package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearch(t *testing.T) {
	var gotAuth string
	var gotBody searchRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(searchResponse{
			Results: []searchResult{
				{Text: "first chunk", Score: 0.92, Metadata: map[string]any{"source": "doc-1"}},
				{Text: "second chunk", Score: 0.55},
			},
		})
	}))
	defer server.Close()

	r := New(server.URL).WithAPIKey("secret")

	chunks, err := r.Search(context.Background(), "goroutines", 2)
	if err != nil {
		t.Fatal(err)
	}

	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody.Query != "goroutines" || gotBody.TopK != 2 {
		t.Errorf("request body = %+v", gotBody)
	}

	if len(chunks) != 2 {
		t.Fatalf("chunks = %+v", chunks)
	}
	if chunks[0].Text != "first chunk" {
		t.Errorf("first chunk text = %q", chunks[0].Text)
	}
	if chunks[0].Metadata["source"] != "doc-1" {
		t.Errorf("metadata = %+v", chunks[0].Metadata)
	}
	if chunks[0].Metadata["score"] != 0.92 {
		t.Errorf("score = %v", chunks[0].Metadata["score"])
	}
	// Results without metadata still get a score entry.
	if chunks[1].Metadata["score"] != 0.55 {
		t.Errorf("second score = %v", chunks[1].Metadata["score"])
	}
}

func TestSearch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, err := New(server.URL).Search(context.Background(), "q", 1); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestSearch_NoBaseURL(t *testing.T) {
	if _, err := (&Retriever{client: http.DefaultClient}).Search(context.Background(), "q", 1); err == nil {
		t.Error("expected error without a base URL")
	}
}

func TestSearch_ZeroK(t *testing.T) {
	chunks, err := New("http://unused.invalid").Search(context.Background(), "q", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 0 {
		t.Errorf("chunks = %+v, want empty", chunks)
	}
}
