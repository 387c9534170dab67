package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestOpenAIComplete(t *testing.T) {
	var body map[string]interface{}
	var path, auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1760000000,
			"model":   "llama-3.3-70b-versatile",
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]interface{}{"role": "assistant", "content": "analysis text"},
				},
			},
		})
	}))
	defer srv.Close()

	client := NewOpenAIClient("test-key", "llama-3.3-70b-versatile", srv.URL+"/")

	got, err := client.Complete(context.Background(), CompletionRequest{
		System:      "system",
		User:        "user",
		Temperature: 0.2,
		MaxTokens:   1000,
	})

	assert.Equal(t, nil, err)
	assert.Equal(t, "analysis text", got.Text)
	assert.Equal(t, "llama-3.3-70b-versatile", got.Model)

	assert.Equal(t, "/chat/completions", path)
	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "llama-3.3-70b-versatile", body["model"])
	assert.Equal(t, 0.2, body["temperature"])
	assert.Equal(t, float64(1000), body["max_tokens"])

	messages := body["messages"].([]interface{})
	assert.Equal(t, 2, len(messages))
	assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
	assert.Equal(t, "user", messages[1].(map[string]interface{})["role"])
}

func TestOpenAICompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-2",
			"object":  "chat.completion",
			"model":   "m",
			"choices": []interface{}{},
		})
	}))
	defer srv.Close()

	client := NewOpenAIClient("k", "m", srv.URL+"/")

	_, err := client.Complete(context.Background(), CompletionRequest{System: "s", User: "u", MaxTokens: 10})

	assert.NotEqual(t, nil, err)
}

func TestOpenAICompleteServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("k", "m", srv.URL+"/")

	_, err := client.Complete(context.Background(), CompletionRequest{System: "s", User: "u", MaxTokens: 10})

	assert.NotEqual(t, nil, err)
	assert.Equal(t, 1, calls)
}
