package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCompletion(t *testing.T) {
	var (
		path    string
		headers http.Header
		payload map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		headers = r.Header.Clone()
		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &payload))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"m",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Hugs!"}}]}`)
	}))
	defer srv.Close()

	c := NewClient(Config{
		Token:   "secret",
		BaseURL: srv.URL + "/api/v1",
		Model:   "test-model",
		Referer: "https://example.org",
		Title:   "Voice Hug",
	})
	out, err := c.ChatCompletion(context.Background(), "be kind", "I am sad")
	require.NoError(t, err)
	assert.Equal(t, "Hugs!", out)

	assert.Equal(t, "/api/v1/chat/completions", path)
	assert.Equal(t, "Bearer secret", headers.Get("Authorization"))
	assert.Equal(t, "https://example.org", headers.Get("HTTP-Referer"))
	assert.Equal(t, "Voice Hug", headers.Get("X-Title"))
	assert.Equal(t, "test-model", payload["model"])
	msgs := payload["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "I am sad", msgs[1].(map[string]any)["content"])
}

func TestChatCompletionNoRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"message":"rate limited"}}`)
	}))
	defer srv.Close()

	c := NewClient(Config{Token: "x", BaseURL: srv.URL})
	_, err := c.ChatCompletion(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestChatCompletionEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[]}`)
	}))
	defer srv.Close()

	_, err := NewClient(Config{Token: "x", BaseURL: srv.URL}).ChatCompletion(context.Background(), "s", "u")
	assert.EqualError(t, err, "openai: empty response")
}
