package static

import (
	"context"
	"testing"

	"github.com/opencampus/coursegen/providers/retriever"
)

func testChunks() []retriever.Chunk {
	return []retriever.Chunk{
		{Text: "Goroutines are lightweight threads managed by the Go runtime."},
		{Text: "Channels connect goroutines so they can exchange values."},
		{Text: "The French Revolution began in 1789."},
	}
}

func TestSearch_RanksByOverlap(t *testing.T) {
	r := New(testChunks())

	results, err := r.Search(context.Background(), "goroutines and channels", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %+v", results)
	}
	// The channels chunk matches both terms; the runtime chunk only one.
	if results[0].Text != "Channels connect goroutines so they can exchange values." {
		t.Errorf("top result = %q", results[0].Text)
	}
}

func TestSearch_ExcludesNonMatching(t *testing.T) {
	r := New(testChunks())

	results, err := r.Search(context.Background(), "goroutines", 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range results {
		if c.Text == "The French Revolution began in 1789." {
			t.Error("unrelated chunk was returned")
		}
	}
}

func TestSearch_TiesKeepInsertionOrder(t *testing.T) {
	r := New([]retriever.Chunk{
		{Text: "alpha topic one"},
		{Text: "alpha topic two"},
	})

	results, err := r.Search(context.Background(), "alpha topic", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].Text != "alpha topic one" {
		t.Errorf("results = %+v", results)
	}
}

func TestSearch_ZeroK(t *testing.T) {
	r := New(testChunks())

	results, err := r.Search(context.Background(), "goroutines", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v, want empty", results)
	}
}

func TestAdd(t *testing.T) {
	r := New(nil)
	r.Add(retriever.Chunk{Text: "freshly added goroutines chunk"})

	results, err := r.Search(context.Background(), "goroutines", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %+v", results)
	}
}

func TestTokenize_DropsShortAndPunctuation(t *testing.T) {
	terms := tokenize("Go, is: a (language)!")
	// "go", "is" and "a" are too short once trimmed.
	if len(terms) != 1 || terms[0] != "language" {
		t.Errorf("terms = %v", terms)
	}
}
