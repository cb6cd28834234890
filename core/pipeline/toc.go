package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/opencampus/coursegen/core/parse"
	"github.com/opencampus/coursegen/providers/ai"
	"github.com/opencampus/coursegen/providers/observability"
)

// tocKeyPrefix namespaces persisted tables of contents in the store.
const tocKeyPrefix = "TOC for "

// parseFailureSentinel is fed to the normalizer when a response cannot be
// parsed as JSON at all, so the run still ends with a usable (stub) document.
var parseFailureSentinel = map[string]any{"error": "Failed to parse response"}

// stageToc asks the model for a table of contents and normalizes the answer.
// An LLM transport failure is fatal (there is nothing to build a course from);
// a malformed response is not, because normalization guarantees a
// non-degenerate document.
func (p *Pipeline) stageToc(ctx context.Context, state *State) *State {
	next := state.clone()

	userPrompt := tocUserPrompt(next.Topic, contextText(next.ContextChunks, p.contextBudget))

	resp, err := p.client.CompleteJSON(ctx, tocSystemPrompt, next.History, userPrompt, p.tocSchema)
	if err != nil {
		next.Error = fmt.Sprintf("toc generation failed: %v", err)
		return next
	}
	next.addUsage(resp.Usage)

	raw, err := parse.As[any](resp.Content)
	if err != nil {
		p.warn(ctx, "toc response is not valid json, normalizing sentinel",
			observability.Error(err),
			observability.String(observability.AttrTopic, next.Topic))
		raw = parseFailureSentinel
	}

	doc := p.normalizer.TOC(ctx, raw, next.Topic)

	// The normalizer guarantees a non-degenerate document; check anyway so a
	// regression there fails the run cleanly instead of producing an empty
	// course.
	if doc.MainTopic == "" || len(doc.SubTopics) == 0 {
		next.Error = "toc normalization produced a degenerate document"
		return next
	}

	next.Toc = &doc
	next.MainTopic = doc.MainTopic
	next.Description = doc.Description
	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventNormalized,
			observability.Int("toc.subtopic_count", len(doc.SubTopics)))
	}

	next.History = append(next.History,
		ai.Message{Role: ai.RoleUser, Content: userPrompt},
		ai.Message{Role: ai.RoleAssistant, Content: resp.Content},
	)

	p.persistToc(ctx, next)
	return next
}

// persistToc stores the normalized document under "TOC for <topic>". Store
// failures are logged, not fatal: the document still lives in the state.
func (p *Pipeline) persistToc(ctx context.Context, state *State) {
	if p.store == nil || state.Toc == nil {
		return
	}

	payload, err := json.Marshal(state.Toc)
	if err != nil {
		p.warn(ctx, "failed to encode toc for persistence", observability.Error(err))
		return
	}

	key := tocKeyPrefix + state.Topic
	if err := p.store.Set(ctx, key, string(payload)); err != nil {
		p.warn(ctx, "failed to persist toc",
			observability.Error(err),
			observability.String(observability.AttrCacheKey, key))
	}
}

// addUsage accumulates token usage from one LLM response.
func (s *State) addUsage(usage *ai.Usage) {
	if usage != nil {
		s.Usage.Add(*usage)
	}
}
