package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/opencampus/coursegen/providers/ai"
)

func TestSendMessage(t *testing.T) {
	var gotReq request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != chatCompletionsEndpoint {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(response{
			ID:    "chatcmpl-1",
			Model: "gpt-4o",
			Choices: []choice{
				{Message: message{Role: "assistant", Content: "hello"}, FinishReason: "stop"},
			},
			Usage: &usage{PromptTokens: 3, CompletionTokens: 1, TotalTokens: 4},
		})
	}))
	defer server.Close()

	provider := New().WithAPIKey("test-key").WithBaseURL(server.URL)

	resp, err := provider.SendMessage(context.Background(), ai.ChatRequest{
		Model:        "gpt-4o",
		SystemPrompt: "be brief",
		Messages:     []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if resp.Content != "hello" {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 4 {
		t.Errorf("Usage = %+v", resp.Usage)
	}
	if gotReq.Model != "gpt-4o" || len(gotReq.Messages) != 2 {
		t.Errorf("request = %+v", gotReq)
	}
}

func TestSendMessage_NoAPIKey(t *testing.T) {
	provider := &OpenAIProvider{client: http.DefaultClient}
	if _, err := provider.SendMessage(context.Background(), ai.ChatRequest{}); err == nil {
		t.Error("expected error without an API key")
	}
}

func TestSendMessage_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(response{ID: "x"})
	}))
	defer server.Close()

	provider := New().WithAPIKey("k").WithBaseURL(server.URL)
	if _, err := provider.SendMessage(context.Background(), ai.ChatRequest{}); err == nil {
		t.Error("expected error for a response with no choices")
	}
}
