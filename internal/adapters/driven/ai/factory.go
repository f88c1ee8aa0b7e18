// Package ai builds embedding and generation adapters from provider settings.
package ai

import (
	"fmt"

	ollamaembed "github.com/docsage-labs/docsage-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/docsage-labs/docsage-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/docsage-labs/docsage-cli/internal/adapters/driven/llm/anthropic"
	coherellm "github.com/docsage-labs/docsage-cli/internal/adapters/driven/llm/cohere"
	ollamallm "github.com/docsage-labs/docsage-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/docsage-labs/docsage-cli/internal/adapters/driven/llm/openai"
	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
	"github.com/docsage-labs/docsage-cli/internal/logger"
)

// CreateEmbeddingService creates the embedding adapter for the configured
// provider. Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("provider %s does not serve embeddings, use openai or ollama", settings.Provider)
	}
}

// CreateLLMService creates a generation adapter for one provider. Returns
// nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderCohere:
		return coherellm.NewLLMService(coherellm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", settings.Provider)
	}
}

// BuildGenerationChain creates one adapter per configured provider, ordered
// by the fixed backend priority. Providers that cannot be built are skipped
// with a warning rather than failing the chain; the extractive fallback in
// the answer service covers the case where every backend is down.
func BuildGenerationChain(configs []domain.LLMSettings) ([]driven.LLMService, []string) {
	byProvider := make(map[domain.AIProvider]*domain.LLMSettings, len(configs))
	for i := range configs {
		byProvider[configs[i].Provider] = &configs[i]
	}

	var (
		chain    []driven.LLMService
		warnings []string
	)
	for _, provider := range domain.GenerationPriority {
		settings, ok := byProvider[provider]
		if !ok {
			continue
		}
		svc, err := CreateLLMService(settings)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", provider, err))
			continue
		}
		if svc == nil {
			continue
		}
		logger.Debug("Generation backend ready: %s (%s)", svc.ProviderName(), svc.ModelName())
		chain = append(chain, svc)
	}
	return chain, warnings
}
