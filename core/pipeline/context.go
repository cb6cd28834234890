package pipeline

import (
	"context"

	"github.com/opencampus/coursegen/providers/observability"
	"github.com/opencampus/coursegen/providers/retriever"
)

// stageContext fills the state with reference material for the topic.
// Pre-supplied chunks pass through untouched. Retrieval failure is not fatal:
// generation can proceed on the model's own knowledge, so the stage degrades
// to an empty context and logs the error.
func (p *Pipeline) stageContext(ctx context.Context, state *State) *State {
	next := state.clone()

	if len(next.ContextChunks) > 0 {
		p.info(ctx, "using supplied context",
			observability.Int(observability.AttrChunkCount, len(next.ContextChunks)))
		return next
	}

	next.ContextChunks = []retriever.Chunk{}
	if p.retriever == nil {
		return next
	}

	chunks, err := p.retriever.Search(ctx, next.Topic, contextTopK)
	if err != nil {
		p.warn(ctx, "context retrieval failed, proceeding without context",
			observability.Error(err),
			observability.String(observability.AttrTopic, next.Topic))
		return next
	}

	if chunks != nil {
		next.ContextChunks = chunks
	}
	p.info(ctx, "retrieved context",
		observability.Int(observability.AttrChunkCount, len(chunks)))
	return next
}
