// Package ingest converts raw reference material into retrieval chunks.
// HTML sources are first converted to Markdown so headings and lists survive
// as plain text, then split on paragraph boundaries into bounded chunks.
package ingest

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/opencampus/coursegen/providers/retriever"
)

// DefaultChunkSize is the target upper bound, in characters, for a single chunk.
const DefaultChunkSize = 1200

// HTML converts an HTML document into retrieval chunks. The source value is
// recorded in each chunk's metadata.
func HTML(html string, source string) ([]retriever.Chunk, error) {
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return nil, fmt.Errorf("ingest: convert html: %w", err)
	}
	return Text(markdown, source), nil
}

// Text splits plain text into chunks of at most DefaultChunkSize characters,
// preferring paragraph boundaries. Paragraphs longer than the limit are kept
// whole rather than split mid-sentence.
func Text(text string, source string) []retriever.Chunk {
	return TextWithSize(text, source, DefaultChunkSize)
}

// TextWithSize is Text with an explicit chunk size limit.
func TextWithSize(text string, source string, maxChars int) []retriever.Chunk {
	if maxChars <= 0 {
		maxChars = DefaultChunkSize
	}

	var chunks []retriever.Chunk
	var current strings.Builder

	flush := func() {
		body := strings.TrimSpace(current.String())
		current.Reset()
		if body == "" {
			return
		}
		chunks = append(chunks, retriever.Chunk{
			Text: body,
			Metadata: map[string]any{
				"source": source,
				"index":  len(chunks),
			},
		})
	}

	for _, paragraph := range splitParagraphs(text) {
		if current.Len() > 0 && current.Len()+len(paragraph)+2 > maxChars {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(paragraph)
	}
	flush()

	return chunks
}

// splitParagraphs breaks text on blank lines, trimming whitespace and
// dropping empty segments.
func splitParagraphs(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")

	var paragraphs []string
	for _, p := range strings.Split(normalized, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}
