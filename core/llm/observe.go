package llm

import (
	"context"
	"time"

	"github.com/opencampus/coursegen/providers/ai"
	"github.com/opencampus/coursegen/providers/observability"
)

// NewObservabilityMiddleware creates a Middleware that wraps every provider
// call in a span and records call and token counters. A nil observer yields a
// pass-through middleware, so callers don't need to special-case the
// unobserved configuration.
func NewObservabilityMiddleware(obs observability.Provider) Middleware {
	return func(next SendFunc) SendFunc {
		if obs == nil {
			return next
		}

		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			ctx, span := obs.StartSpan(ctx, "llm.send",
				observability.String(observability.AttrModel, request.Model),
				observability.Int("llm.message_count", len(request.Messages)),
			)
			defer span.End()

			obs.Counter(observability.MetricLLMCalls).Add(ctx, 1)

			start := time.Now()
			response, err := next(ctx, request)
			elapsed := time.Since(start)

			if err != nil {
				span.RecordError(err)
				span.SetStatus(observability.StatusError, err.Error())
				obs.Error(ctx, "llm call failed",
					observability.String(observability.AttrModel, request.Model),
					observability.Duration("duration", elapsed),
					observability.Error(err),
				)
				return nil, err
			}

			span.SetStatus(observability.StatusOK, "")
			span.SetAttributes(
				observability.String(observability.AttrFinishReason, response.FinishReason),
				observability.Duration("duration", elapsed),
			)

			if response.Usage != nil {
				obs.Counter(observability.MetricLLMTokens).Add(ctx, int64(response.Usage.TotalTokens))
				span.SetAttributes(
					observability.Int("llm.prompt_tokens", response.Usage.PromptTokens),
					observability.Int("llm.completion_tokens", response.Usage.CompletionTokens),
				)
			}

			return response, nil
		}
	}
}
