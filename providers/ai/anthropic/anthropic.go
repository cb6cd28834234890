// Package anthropic adapts the official Anthropic SDK to the generic
// ai.Provider interface. The Messages API has no native JSON-schema response
// mode, so when a request carries an output schema it is embedded into the
// system prompt as formatting instructions.
package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"os"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/opencampus/coursegen/providers/ai"
)

const (
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 4096
)

// AnthropicProvider implements the Provider interface over the official
// Anthropic Go SDK.
type AnthropicProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ ai.Provider = (*AnthropicProvider)(nil)

// New creates a new Anthropic provider instance. The API key is read from
// ANTHROPIC_API_KEY when set.
func New() *AnthropicProvider {
	return &AnthropicProvider{
		apiKey: os.Getenv("ANTHROPIC_API_KEY"),
	}
}

// WithAPIKey sets the API key for the provider.
func (p *AnthropicProvider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL sets a custom base URL, mainly useful for proxies.
func (p *AnthropicProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = baseURL
	return p
}

// WithHttpClient sets a custom HTTP client.
func (p *AnthropicProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

func (p *AnthropicProvider) sdkClient() anthropicsdk.Client {
	opts := []option.RequestOption{option.WithAPIKey(p.apiKey)}
	if p.baseURL != "" {
		opts = append(opts, option.WithBaseURL(p.baseURL))
	}
	if p.client != nil {
		opts = append(opts, option.WithHTTPClient(p.client))
	}
	return anthropicsdk.NewClient(opts...)
}

// SendMessage implements the Provider interface.
func (p *AnthropicProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("anthropic: API key is not set")
	}

	model := request.Model
	if model == "" {
		model = defaultModel
	}

	systemPrompt := request.SystemPrompt
	if request.ResponseFormat != nil && request.ResponseFormat.OutputSchema != nil {
		systemPrompt = systemPrompt + "\n\nRespond with a single JSON object matching this JSON Schema, with no surrounding text or markdown fences:\n" + request.ResponseFormat.OutputSchema.String()
	}

	params := anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(model),
		MaxTokens: defaultMaxTokens,
	}
	if systemPrompt != "" {
		params.System = []anthropicsdk.TextBlockParam{{Text: systemPrompt}}
	}
	if request.GenerationConfig != nil {
		if request.GenerationConfig.MaxTokens > 0 {
			params.MaxTokens = int64(request.GenerationConfig.MaxTokens)
		}
		if request.GenerationConfig.Temperature > 0 {
			params.Temperature = anthropicsdk.Float(float64(request.GenerationConfig.Temperature))
		}
		if request.GenerationConfig.TopP > 0 {
			params.TopP = anthropicsdk.Float(float64(request.GenerationConfig.TopP))
		}
	}

	for _, m := range request.Messages {
		switch m.Role {
		case ai.RoleAssistant:
			params.Messages = append(params.Messages, anthropicsdk.NewAssistantMessage(anthropicsdk.NewTextBlock(m.Content)))
		case ai.RoleSystem:
			// The Messages API takes the system prompt out of band.
			params.System = append(params.System, anthropicsdk.TextBlockParam{Text: m.Content})
		default:
			params.Messages = append(params.Messages, anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(m.Content)))
		}
	}

	client := p.sdkClient()
	message, err := client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic: send message: %w", err)
	}

	var content string
	for _, block := range message.Content {
		if block.Type == "text" {
			content = block.Text
			break
		}
	}
	if content == "" {
		return nil, fmt.Errorf("anthropic: no text content in response")
	}

	return &ai.ChatResponse{
		Id:           message.ID,
		Model:        string(message.Model),
		Content:      content,
		FinishReason: string(message.StopReason),
		Usage: &ai.Usage{
			PromptTokens:     int(message.Usage.InputTokens),
			CompletionTokens: int(message.Usage.OutputTokens),
			TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
		},
	}, nil
}
