package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	t.Run("nil settings", func(t *testing.T) {
		svc, err := CreateEmbeddingService(nil)
		require.NoError(t, err)
		assert.Nil(t, svc)
	})

	t.Run("unconfigured settings", func(t *testing.T) {
		svc, err := CreateEmbeddingService(&domain.EmbeddingSettings{
			Provider: domain.AIProviderOpenAI, // missing API key
		})
		require.NoError(t, err)
		assert.Nil(t, svc)
	})

	t.Run("ollama", func(t *testing.T) {
		svc, err := CreateEmbeddingService(&domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
		})
		require.NoError(t, err)
		require.NotNil(t, svc)
		defer svc.Close()
		assert.Equal(t, "nomic-embed-text", svc.ModelName())
		assert.Equal(t, 768, svc.Dimensions())
	})

	t.Run("openai", func(t *testing.T) {
		svc, err := CreateEmbeddingService(&domain.EmbeddingSettings{
			Provider: domain.AIProviderOpenAI,
			APIKey:   "test-key",
		})
		require.NoError(t, err)
		require.NotNil(t, svc)
		defer svc.Close()
		assert.Equal(t, 1536, svc.Dimensions())
	})

	t.Run("generation-only provider rejected", func(t *testing.T) {
		_, err := CreateEmbeddingService(&domain.EmbeddingSettings{
			Provider: domain.AIProviderAnthropic,
			APIKey:   "test-key",
		})
		assert.Error(t, err)
	})
}

func TestCreateLLMService(t *testing.T) {
	t.Run("nil settings", func(t *testing.T) {
		svc, err := CreateLLMService(nil)
		require.NoError(t, err)
		assert.Nil(t, svc)
	})

	t.Run("each provider", func(t *testing.T) {
		cases := []struct {
			provider domain.AIProvider
			model    string
		}{
			{domain.AIProviderCohere, "command-r-plus"},
			{domain.AIProviderOpenAI, "gpt-3.5-turbo"},
			{domain.AIProviderAnthropic, "claude-3-sonnet-20240229"},
			{domain.AIProviderOllama, "llama3.2"},
		}

		for _, tc := range cases {
			t.Run(tc.provider.String(), func(t *testing.T) {
				svc, err := CreateLLMService(&domain.LLMSettings{
					Provider: tc.provider,
					APIKey:   "test-key",
				})
				require.NoError(t, err)
				require.NotNil(t, svc)
				defer svc.Close()
				assert.Equal(t, tc.provider.String(), svc.ProviderName())
				assert.Equal(t, tc.model, svc.ModelName())
			})
		}
	})
}

func TestBuildGenerationChain(t *testing.T) {
	t.Run("priority order regardless of config order", func(t *testing.T) {
		chain, warnings := BuildGenerationChain([]domain.LLMSettings{
			{Provider: domain.AIProviderOllama},
			{Provider: domain.AIProviderAnthropic, APIKey: "k"},
			{Provider: domain.AIProviderCohere, APIKey: "k"},
		})
		require.Empty(t, warnings)
		require.Len(t, chain, 3)
		assert.Equal(t, "cohere", chain[0].ProviderName())
		assert.Equal(t, "anthropic", chain[1].ProviderName())
		assert.Equal(t, "ollama", chain[2].ProviderName())
		for _, svc := range chain {
			svc.Close()
		}
	})

	t.Run("unconfigured providers skipped", func(t *testing.T) {
		chain, warnings := BuildGenerationChain([]domain.LLMSettings{
			{Provider: domain.AIProviderOpenAI}, // missing API key
			{Provider: domain.AIProviderOllama},
		})
		require.Empty(t, warnings)
		require.Len(t, chain, 1)
		assert.Equal(t, "ollama", chain[0].ProviderName())
		chain[0].Close()
	})

	t.Run("empty config yields empty chain", func(t *testing.T) {
		chain, warnings := BuildGenerationChain(nil)
		assert.Empty(t, chain)
		assert.Empty(t, warnings)
	})
}
