package cohere

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
		assert.Equal(t, "cohere", svc.ProviderName())
	})
}

func TestGenerate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/generate", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req generateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "command-r-plus", req.Model)
			assert.Equal(t, "END", req.Truncate)
			assert.Equal(t, 500, req.MaxTokens)

			_, _ = w.Write([]byte(`{"generations":[{"text":"  The answer.  "}]}`))
		})

		got, err := svc.Generate(context.Background(), "question", driven.GenerateOptions{MaxTokens: 500, Temperature: 0.7})
		require.NoError(t, err)
		assert.Equal(t, "The answer.", got)
	})

	t.Run("api error", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"message":"rate limited"}`))
		})

		_, err := svc.Generate(context.Background(), "question", driven.GenerateOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limited")
	})

	t.Run("no generations", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"generations":[]}`))
		})

		_, err := svc.Generate(context.Background(), "question", driven.GenerateOptions{})
		assert.Error(t, err)
	})
}

func TestChat(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		// The conversation must be flattened into a single prompt.
		assert.Contains(t, req.Prompt, "You answer from documents.")
		assert.Contains(t, req.Prompt, "User: hello")
		assert.Contains(t, req.Prompt, "Assistant: hi")

		_, _ = w.Write([]byte(`{"generations":[{"text":"reply"}]}`))
	})

	messages := []driven.ChatMessage{
		{Role: "system", Content: "You answer from documents."},
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
		{Role: "user", Content: "next"},
	}
	got, err := svc.Chat(context.Background(), messages, driven.ChatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "reply", got)
}
