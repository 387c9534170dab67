package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestAnthropicComplete(t *testing.T) {
	var body map[string]interface{}
	var path, key string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		key = r.Header.Get("X-Api-Key")
		json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":          "msg_1",
			"type":        "message",
			"role":        "assistant",
			"model":       "claude-haiku-4-5",
			"stop_reason": "end_turn",
			"content": []map[string]interface{}{
				{"type": "text", "text": "first part. "},
				{"type": "text", "text": "second part."},
			},
			"usage": map[string]interface{}{"input_tokens": 10, "output_tokens": 5},
		})
	}))
	defer srv.Close()

	client := NewAnthropicClient("test-key", "claude-haiku-4-5", srv.URL+"/")

	got, err := client.Complete(context.Background(), CompletionRequest{
		System:      "system prompt",
		User:        "user prompt",
		Temperature: 0.2,
		MaxTokens:   1000,
	})

	assert.Equal(t, nil, err)
	assert.Equal(t, "first part. second part.", got.Text)
	assert.Equal(t, "claude-haiku-4-5", got.Model)

	assert.Equal(t, "/v1/messages", path)
	assert.Equal(t, "test-key", key)
	assert.Equal(t, "claude-haiku-4-5", body["model"])
	assert.Equal(t, 0.2, body["temperature"])
	assert.Equal(t, float64(1000), body["max_tokens"])
}

func TestAnthropicCompleteEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "msg_2",
			"type":    "message",
			"role":    "assistant",
			"model":   "claude-haiku-4-5",
			"content": []interface{}{},
		})
	}))
	defer srv.Close()

	client := NewAnthropicClient("k", "claude-haiku-4-5", srv.URL+"/")

	_, err := client.Complete(context.Background(), CompletionRequest{System: "s", User: "u", MaxTokens: 10})

	assert.NotEqual(t, nil, err)
}
