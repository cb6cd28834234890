package pipeline

import (
	"github.com/google/uuid"

	"github.com/opencampus/coursegen/core/course"
	"github.com/opencampus/coursegen/providers/ai"
	"github.com/opencampus/coursegen/providers/retriever"
)

// State is the value threaded through the pipeline stages. Stages never
// mutate their input: each one works on a clone and returns it, so a caller
// holding a reference to an earlier state sees a consistent snapshot.
//
// A non-empty Error marks the run as failed; subsequent stages are skipped.
type State struct {
	// RunID uniquely identifies one pipeline execution across logs and spans.
	RunID uuid.UUID `json:"runId"`

	// Topic is the user-supplied course topic that seeded the run.
	Topic string `json:"topic"`

	// ContextChunks is the reference material retrieved (or supplied) for
	// the topic.
	ContextChunks []retriever.Chunk `json:"contextChunks,omitempty"`

	// MainTopic and Description are the normalized course heading, lifted
	// out of Toc for convenient access.
	MainTopic   string `json:"mainTopic,omitempty"`
	Description string `json:"description,omitempty"`

	// Toc is the normalized table of contents produced by the TOC stage.
	Toc *course.TocDocument `json:"toc,omitempty"`

	// GeneratedContent is the fully expanded course tree produced by the
	// content stage. Its sub-topic and chapter order matches Toc exactly.
	GeneratedContent *course.ContentTree `json:"generatedContent,omitempty"`

	// History is the conversation carried between stages, as user/assistant
	// message pairs.
	History []ai.Message `json:"history,omitempty"`

	// Usage accumulates token consumption across every LLM call of the run.
	Usage ai.Usage `json:"usage"`

	// Error holds the failure description when a stage failed fatally.
	Error string `json:"error,omitempty"`

	// Extra carries auxiliary values that do not warrant a dedicated field.
	Extra map[string]any `json:"extra,omitempty"`
}

// Failed reports whether the run has failed fatally.
func (s *State) Failed() bool {
	return s.Error != ""
}

// clone returns a copy safe for the next stage to mutate. Slices and the
// Extra map are copied; the documents they point to are treated as immutable
// once set and shared.
func (s *State) clone() *State {
	next := *s

	if s.ContextChunks != nil {
		next.ContextChunks = make([]retriever.Chunk, len(s.ContextChunks))
		copy(next.ContextChunks, s.ContextChunks)
	}
	if s.History != nil {
		next.History = make([]ai.Message, len(s.History))
		copy(next.History, s.History)
	}
	if s.Extra != nil {
		next.Extra = make(map[string]any, len(s.Extra))
		for k, v := range s.Extra {
			next.Extra[k] = v
		}
	}

	return &next
}
