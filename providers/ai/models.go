package ai

import (
	"github.com/opencampus/coursegen/internal/jsonschema"
)

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest represents a single completion request sent to a provider.
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`             // Model name or identifier
	Messages         []Message         `json:"messages"`                    // All conversation messages except the system prompt
	SystemPrompt     string            `json:"system_prompt,omitempty"`     // Optional system prompt
	ResponseFormat   *ResponseFormat   `json:"response_format,omitempty"`   // Optional structured-response format
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"` // Optional generation configuration
}

// Message represents a single message in a conversation.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`
}

// GenerationConfig tunes sampling behavior. Zero values are omitted from the
// provider payload so backend defaults apply.
type GenerationConfig struct {
	MaxTokens   int     `json:"max_tokens,omitempty"`  // Max tokens for the response
	Temperature float32 `json:"temperature,omitempty"` // Sampling temperature [0..2]. Higher => more random.
	TopP        float32 `json:"top_p,omitempty"`       // Nucleus sampling [0..1]. Alternative to temperature.
}

// ResponseFormat asks the provider for structured output. Providers without a
// native schema mode embed the schema into the prompt instead.
type ResponseFormat struct {
	OutputSchema *jsonschema.Schema `json:"output_schema,omitempty"` // Schema for structured response. Implementation varies by provider.
	Strict       bool               `json:"strict,omitempty"`        // If true, the model must strictly adhere to the schema, if possible.
	Type         string             `json:"type,omitempty"`          // "text|json_object|json_schema" hint, usable without a schema
}

/*
	##### PROVIDER OUTPUT #####
*/

// Usage accounts for tokens consumed by a single request.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// Add accumulates other into u. Used to aggregate usage across the multiple
// provider calls a pipeline run performs.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// ChatResponse represents the response from a chat completion.
type ChatResponse struct {
	Id           string `json:"id"`
	Model        string `json:"model"`
	Created      int64  `json:"created"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`
}

/*
	##### ENUMS #####
*/

// MessageRole represents the role of a message; compatible with string.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Model response
)
