package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMistralChatClient_Chat(t *testing.T) {
	t.Run("successful completion", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
				t.Errorf("unexpected authorization: %s", auth)
			}

			var req map[string]any
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
			if req["model"] != "mistral-large-latest" {
				t.Errorf("model = %v", req["model"])
			}
			if temp, ok := req["temperature"].(float64); !ok || temp != 0.1 {
				t.Errorf("temperature = %v", req["temperature"])
			}
			if maxTokens, ok := req["max_tokens"].(float64); !ok || maxTokens != 4000 {
				t.Errorf("max_tokens = %v", req["max_tokens"])
			}

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"id": "cmpl-1",
				"object": "chat.completion",
				"model": "mistral-large-latest",
				"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"ok\":true}"}, "finish_reason": "stop"}],
				"usage": {"prompt_tokens": 42, "completion_tokens": 7, "total_tokens": 49}
			}`))
		}))
		defer server.Close()

		client := NewMistralChatClient(MistralChatConfig{
			APIKey:  "test-key",
			BaseURL: server.URL,
		})

		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages:    []Message{{Role: "user", Content: "parse this"}},
			Temperature: 0.1,
			MaxTokens:   4000,
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if result.Content != `{"ok":true}` {
			t.Errorf("content = %q", result.Content)
		}
		if result.PromptTokens != 42 || result.CompletionTokens != 7 || result.TotalTokens != 49 {
			t.Errorf("unexpected usage: %+v", result)
		}
		if result.Provider != MistralChatName {
			t.Errorf("provider = %s", result.Provider)
		}
		if result.RequestID == "" {
			t.Error("expected generated request ID")
		}
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"message":"capacity exceeded"}}`))
		}))
		defer server.Close()

		client := NewMistralChatClient(MistralChatConfig{APIKey: "test-key", BaseURL: server.URL})

		_, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "hi"}},
		})
		if err == nil {
			t.Fatal("expected error")
		}
	})
}
