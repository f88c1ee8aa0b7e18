package openai

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
		assert.Equal(t, "openai", svc.ProviderName())
	})
}

func TestGenerate(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "question", req.Messages[0].Content)

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": " answer "}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	got, err := svc.Generate(context.Background(), "question", driven.GenerateOptions{MaxTokens: 100})
	require.NoError(t, err)
	assert.Equal(t, "answer", got)
}

func TestChat(t *testing.T) {
	t.Run("passes conversation through", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			var req chatCompletionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Messages, 3)
			assert.Equal(t, "system", req.Messages[0].Role)
			assert.Equal(t, "assistant", req.Messages[2].Role)

			resp := map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"content": "reply"}},
				},
			}
			require.NoError(t, json.NewEncoder(w).Encode(resp))
		})

		messages := []driven.ChatMessage{
			{Role: "system", Content: "instructions"},
			{Role: "user", Content: "hello"},
			{Role: "assistant", Content: "hi"},
		}
		got, err := svc.Chat(context.Background(), messages, driven.ChatOptions{})
		require.NoError(t, err)
		assert.Equal(t, "reply", got)
	})

	t.Run("api error surfaced", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"invalid key","type":"auth"}}`))
		})

		_, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "x"}}, driven.ChatOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid key")
	})

	t.Run("empty choices rejected", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		})

		_, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "x"}}, driven.ChatOptions{})
		assert.Error(t, err)
	})
}
