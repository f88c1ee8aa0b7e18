package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewLLMService(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	return svc
}

func TestNewLLMService(t *testing.T) {
	t.Run("requires API key", func(t *testing.T) {
		_, err := NewLLMService(Config{})
		assert.Error(t, err)
	})

	t.Run("applies defaults", func(t *testing.T) {
		svc, err := NewLLMService(Config{APIKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, DefaultModel, svc.ModelName())
		assert.Equal(t, "anthropic", svc.ProviderName())
	})
}

func TestGenerate(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.NotZero(t, req.MaxTokens)

		resp := map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": "the answer"},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	got, err := svc.Generate(context.Background(), "question", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "the answer", got)
}

func TestChat(t *testing.T) {
	t.Run("system message lifted", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			var req messagesRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

			assert.Equal(t, "instructions", req.System)
			require.Len(t, req.Messages, 2)
			for _, msg := range req.Messages {
				assert.NotEqual(t, "system", msg.Role)
			}

			resp := map[string]any{
				"content": []map[string]any{
					{"type": "text", "text": "reply"},
				},
			}
			require.NoError(t, json.NewEncoder(w).Encode(resp))
		})

		messages := []driven.ChatMessage{
			{Role: "system", Content: "instructions"},
			{Role: "user", Content: "hello"},
			{Role: "assistant", Content: "hi"},
		}
		got, err := svc.Chat(context.Background(), messages, driven.ChatOptions{MaxTokens: 100})
		require.NoError(t, err)
		assert.Equal(t, "reply", got)
	})

	t.Run("api error surfaced", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request","message":"bad request"}}`))
		})

		_, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "x"}}, driven.ChatOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad request")
	})

	t.Run("multiple text blocks concatenated", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			resp := map[string]any{
				"content": []map[string]any{
					{"type": "text", "text": "part one "},
					{"type": "text", "text": "part two"},
				},
			}
			require.NoError(t, json.NewEncoder(w).Encode(resp))
		})

		got, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "x"}}, driven.ChatOptions{})
		require.NoError(t, err)
		assert.Equal(t, "part one part two", got)
	})
}
