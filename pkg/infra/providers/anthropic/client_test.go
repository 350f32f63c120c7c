package anthropic

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
	_, err := NewAnthropicClient().Ask(context.Background(), &providers.Config{}, "q")
	assert.ErrorIs(t, err, providers.ErrMissingAPIKey)
}

func TestClient_Ask(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("X-Api-Key"))
		body, _ := io.ReadAll(r.Body) //nolint:errcheck
		_ = json.Unmarshal(body, &captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-haiku-latest",
			"content": [{"type": "text", "text": "From the blog."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 20, "output_tokens": 4}
		}`))
	}))
	defer srv.Close()

	resp, err := NewAnthropicClient().Ask(context.Background(), &providers.Config{
		Credentials:  providers.Credentials{ApiKey: "sk-ant"},
		BaseURL:      srv.URL,
		SystemPrompt: "sys",
	}, "question")

	require.NoError(t, err)
	assert.Equal(t, "msg_1", resp.ID)
	assert.Equal(t, "From the blog.", resp.Response)
	assert.Equal(t, 24, resp.Usage.TotalTokens)
	assert.EqualValues(t, defaultMaxTokens, captured["max_tokens"])
	assert.EqualValues(t, 0, captured["temperature"])
}
