package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "openai/gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(body)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(context.Background(), Config{
		OpenRouterAPIKey:  "test-key",
		OpenRouterBaseURL: server.URL + "/api/v1",
	})
	require.NoError(t, err)
	return c
}

func TestGenerate(t *testing.T) {
	var received map[string]any

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		data, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(data, &received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionBody("AI is everywhere."))
	})

	out, err := c.Generate(context.Background(), "openai/gpt-4o-mini", "be helpful", "why is AI trending?")
	require.NoError(t, err)
	assert.Equal(t, "AI is everywhere.", out)

	assert.Equal(t, "openai/gpt-4o-mini", received["model"])
	messages, ok := received["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
}

func TestGenerateWithoutSystemPrompt(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []map[string]any `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body.Messages, 1)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionBody(`["ai"]`))
	})

	out, err := c.Generate(context.Background(), "openai/gpt-4o-mini", "", "terms")
	require.NoError(t, err)
	assert.Equal(t, `["ai"]`, out)
}

func TestGenerateServerError(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"upstream down","type":"server_error"}}`)
	})

	_, err := c.Generate(context.Background(), "openai/gpt-4o-mini", "", "hello")
	assert.Error(t, err)
	assert.Equal(t, 1, calls, "failed requests are not retried")
}

func TestGenerateEmptyResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionBody("   "))
	})

	_, err := c.Generate(context.Background(), "openai/gpt-4o-mini", "", "hello")
	assert.True(t, errors.Is(err, ErrEmptyResponse))
}

func TestGenerateJSONSendsSchema(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ResponseFormat struct {
				Type       string `json:"type"`
				JSONSchema struct {
					Name   string         `json:"name"`
					Strict bool           `json:"strict"`
					Schema map[string]any `json:"schema"`
				} `json:"json_schema"`
			} `json:"response_format"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "json_schema", body.ResponseFormat.Type)
		assert.Equal(t, "video_metadata", body.ResponseFormat.JSONSchema.Name)
		assert.True(t, body.ResponseFormat.JSONSchema.Strict)
		assert.Equal(t, "object", body.ResponseFormat.JSONSchema.Schema["type"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionBody(`{"title":"t","description":"d"}`))
	})

	schema := map[string]any{"type": "object"}
	out, err := c.GenerateJSON(context.Background(), "openai/gpt-4o-mini", "describe", "video_metadata", schema)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"t","description":"d"}`, out)
}

func TestGeminiRoutingRequiresKey(t *testing.T) {
	c, err := NewClient(context.Background(), Config{OpenRouterBaseURL: "http://localhost"})
	require.NoError(t, err)
	assert.False(t, c.useGemini("gemini-2.5-flash"))
	assert.False(t, c.useGemini("openai/gpt-4o-mini"))
}
