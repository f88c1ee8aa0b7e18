package ollama

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

	return NewLLMService(Config{BaseURL: server.URL})
}

func TestNewLLMService(t *testing.T) {
	svc := NewLLMService(Config{})
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, "ollama", svc.ProviderName())
}

func TestGenerate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/generate", r.URL.Path)

			var req generateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.False(t, req.Stream)
			require.NotNil(t, req.Options)
			assert.Equal(t, 200, req.Options.NumPredict)

			require.NoError(t, json.NewEncoder(w).Encode(generateResponse{Response: " local answer ", Done: true}))
		})

		got, err := svc.Generate(context.Background(), "question", driven.GenerateOptions{MaxTokens: 200})
		require.NoError(t, err)
		assert.Equal(t, "local answer", got)
	})

	t.Run("no options block when defaults", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			var req generateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Nil(t, req.Options)
			require.NoError(t, json.NewEncoder(w).Encode(generateResponse{Response: "ok", Done: true}))
		})

		_, err := svc.Generate(context.Background(), "question", driven.GenerateOptions{})
		require.NoError(t, err)
	})

	t.Run("server error", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("model not found"))
		})

		_, err := svc.Generate(context.Background(), "question", driven.GenerateOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model not found")
	})
}

func TestChat(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		resp := chatResponse{Message: chatMessage{Role: "assistant", Content: "reply"}, Done: true}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	messages := []driven.ChatMessage{
		{Role: "system", Content: "instructions"},
		{Role: "user", Content: "hello"},
	}
	got, err := svc.Chat(context.Background(), messages, driven.ChatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "reply", got)
}

func TestPing(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})
	assert.NoError(t, svc.Ping(context.Background()))
}
