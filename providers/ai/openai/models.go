package openai

import (
	"github.com/opencampus/coursegen/internal/jsonschema"
	"github.com/opencampus/coursegen/providers/ai"
)

/*
	##### WIRE FORMAT #####
*/

type request struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float32         `json:"temperature,omitempty"`
	TopP           float32         `json:"top_p,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *jsonSchemaFormat `json:"json_schema,omitempty"`
}

type jsonSchemaFormat struct {
	Name   string             `json:"name"`
	Strict bool               `json:"strict,omitempty"`
	Schema *jsonschema.Schema `json:"schema"`
}

type response struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
	Usage   *usage   `json:"usage"`
}

type choice struct {
	Index        int     `json:"index"`
	Message      message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

/*
	##### CONVERSION #####
*/

// requestFromGeneric maps the provider-agnostic request onto the OpenAI wire
// format. The system prompt becomes the leading message; a response schema
// becomes a json_schema response_format entry.
func requestFromGeneric(generic ai.ChatRequest) request {
	req := request{
		Model: generic.Model,
	}
	if req.Model == "" {
		req.Model = defaultModel
	}

	if generic.SystemPrompt != "" {
		req.Messages = append(req.Messages, message{Role: string(ai.RoleSystem), Content: generic.SystemPrompt})
	}
	for _, m := range generic.Messages {
		req.Messages = append(req.Messages, message{Role: string(m.Role), Content: m.Content})
	}

	if generic.GenerationConfig != nil {
		req.MaxTokens = generic.GenerationConfig.MaxTokens
		req.Temperature = generic.GenerationConfig.Temperature
		req.TopP = generic.GenerationConfig.TopP
	}

	if generic.ResponseFormat != nil {
		if generic.ResponseFormat.OutputSchema != nil {
			req.ResponseFormat = &responseFormat{
				Type: "json_schema",
				JSONSchema: &jsonSchemaFormat{
					Name:   "response",
					Strict: generic.ResponseFormat.Strict,
					Schema: generic.ResponseFormat.OutputSchema,
				},
			}
		} else if generic.ResponseFormat.Type == "json_object" {
			req.ResponseFormat = &responseFormat{Type: "json_object"}
		}
	}

	return req
}

func responseToGeneric(resp response) *ai.ChatResponse {
	first := resp.Choices[0]

	generic := &ai.ChatResponse{
		Id:           resp.ID,
		Model:        resp.Model,
		Created:      resp.Created,
		Content:      first.Message.Content,
		FinishReason: first.FinishReason,
	}

	if resp.Usage != nil {
		generic.Usage = &ai.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return generic
}
