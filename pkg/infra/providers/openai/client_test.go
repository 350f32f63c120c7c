package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rdd6584/blogqa/pkg/infra/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Ask_MissingAPIKey(t *testing.T) {
	c := NewOpenaiClient()

	_, err := c.Ask(context.Background(), &providers.Config{}, "hello")

	assert.ErrorIs(t, err, providers.ErrMissingAPIKey)
}

func TestClient_Ask_SendsSystemAndUserMessages(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body) //nolint:errcheck
		_ = json.Unmarshal(body, &captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "  It is about Go.  "}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer srv.Close()

	c := NewOpenaiClient()
	resp, err := c.Ask(context.Background(), &providers.Config{
		Credentials:  providers.Credentials{ApiKey: "sk-test"},
		BaseURL:      srv.URL,
		MaxTokens:    512,
		Temperature:  0,
		SystemPrompt: "system text",
	}, "user text")

	require.NoError(t, err)
	assert.Equal(t, "chatcmpl-1", resp.ID)
	assert.Equal(t, "  It is about Go.  ", resp.Response)
	assert.Equal(t, 15, resp.Usage.TotalTokens)

	assert.Equal(t, DefaultModel, captured["model"])
	assert.EqualValues(t, 512, captured["max_tokens"])
	assert.EqualValues(t, 0, captured["temperature"])
	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	first, _ := messages[0].(map[string]any)  //nolint:errcheck
	second, _ := messages[1].(map[string]any) //nolint:errcheck
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "system text", first["content"])
	assert.Equal(t, "user", second["role"])
	assert.Equal(t, "user text", second["content"])
}

func TestClient_Ask_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "x", "object": "chat.completion", "created": 1, "model": "m", "choices": []}`))
	}))
	defer srv.Close()

	c := NewOpenaiClient()
	_, err := c.Ask(context.Background(), &providers.Config{
		Credentials: providers.Credentials{ApiKey: "sk-test"},
		BaseURL:     srv.URL,
	}, "q")

	assert.ErrorIs(t, err, providers.ErrNoCompletion)
}

func TestClient_ReusesPooledClient(t *testing.T) {
	c, ok := NewOpenaiClient().(*client)
	require.True(t, ok)

	first := c.getOrCreateClient("key", "")
	second := c.getOrCreateClient("key", "")
	other := c.getOrCreateClient("other", "")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
}
