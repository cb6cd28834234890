package llm

import (
	"context"
	"errors"
	"time"

	"github.com/opencampus/coursegen/internal/jsonschema"
	"github.com/opencampus/coursegen/providers/ai"
	"github.com/opencampus/coursegen/providers/observability"
)

// ErrNilProvider is returned by [New] when no ai.Provider is supplied.
var ErrNilProvider = errors.New("llm: provider must not be nil")

// Client wraps an ai.Provider with a middleware chain (retry, timeout,
// observability) and the request plumbing shared by every pipeline stage.
// It is safe for concurrent use: all fields are set at construction time.
type Client struct {
	provider    ai.Provider
	model       string
	generation  *ai.GenerationConfig
	middlewares []Middleware
	chain       SendFunc
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithModel sets the model identifier stamped onto every request.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithGenerationConfig sets the sampling configuration applied to every
// request that does not carry its own.
func WithGenerationConfig(config ai.GenerationConfig) Option {
	return func(c *Client) {
		c.generation = &config
	}
}

// WithMiddleware appends middlewares to the chain. The first middleware
// registered is the outermost wrapper, i.e. the first to see a request.
func WithMiddleware(middlewares ...Middleware) Option {
	return func(c *Client) {
		c.middlewares = append(c.middlewares, middlewares...)
	}
}

// WithRetry is shorthand for WithMiddleware(NewRetryMiddleware(config)).
func WithRetry(config RetryConfig) Option {
	return WithMiddleware(NewRetryMiddleware(config))
}

// WithTimeout is shorthand for WithMiddleware(NewTimeoutMiddleware(timeout)).
func WithTimeout(timeout time.Duration) Option {
	return WithMiddleware(NewTimeoutMiddleware(timeout))
}

// WithObserver is shorthand for WithMiddleware(NewObservabilityMiddleware(obs)).
func WithObserver(obs observability.Provider) Option {
	return WithMiddleware(NewObservabilityMiddleware(obs))
}

// New creates a Client around provider. Middlewares are composed once, at
// construction: registration order is outermost-first.
func New(provider ai.Provider, opts ...Option) (*Client, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}

	client := &Client{provider: provider}
	for _, opt := range opts {
		opt(client)
	}

	client.chain = buildChain(provider, client.middlewares)
	return client, nil
}

// Send dispatches a request through the middleware chain. The client's model
// and generation config are filled in when the request leaves them empty.
func (c *Client) Send(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if request.Model == "" {
		request.Model = c.model
	}
	if request.GenerationConfig == nil {
		request.GenerationConfig = c.generation
	}
	return c.chain(ctx, request)
}

// CompleteJSON issues a single completion request asking for output matching
// schema. The conversation history is sent as-is ahead of the user prompt so
// the model keeps continuity across pipeline stages. The response content is
// raw text; parsing is the caller's concern (see package parse).
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt string, history []ai.Message, userPrompt string, schema *jsonschema.Schema) (*ai.ChatResponse, error) {
	messages := make([]ai.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, ai.Message{Role: ai.RoleUser, Content: userPrompt})

	request := ai.ChatRequest{
		Messages:     messages,
		SystemPrompt: systemPrompt,
		ResponseFormat: &ai.ResponseFormat{
			OutputSchema: schema,
			Strict:       true,
			Type:         "json_object",
		},
	}

	return c.Send(ctx, request)
}
