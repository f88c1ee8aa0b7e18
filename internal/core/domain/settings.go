package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers, in default generation priority order:
// external APIs first, then the local model.
const (
	// AIProviderCohere is the Cohere cloud API (prompt-completion shape).
	AIProviderCohere AIProvider = "cohere"

	// AIProviderOpenAI is the OpenAI cloud API (chat-completion shape).
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API (messages shape).
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// GenerationPriority is the fixed backend preference order: external
// API providers before the local fallback model. The deterministic
// extractive responder sits behind all of them and never fails.
var GenerationPriority = []AIProvider{
	AIProviderCohere,
	AIProviderOpenAI,
	AIProviderAnthropic,
	AIProviderOllama,
}

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderCohere, AIProviderOpenAI, AIProviderAnthropic, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p != AIProviderOllama
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderCohere:
		return "Cohere (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings configures the embedding provider.
type EmbeddingSettings struct {
	// Provider selects the embedding backend (openai or ollama).
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// APIKey authenticates cloud providers.
	APIKey string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// Dimensions overrides the model's default vector size.
	Dimensions int
}

// IsConfigured returns true when the settings can produce a usable service.
func (s *EmbeddingSettings) IsConfigured() bool {
	if s == nil || !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings configures one generation backend.
type LLMSettings struct {
	// Provider selects the generation backend.
	Provider AIProvider

	// Model is the generation model name.
	Model string

	// APIKey authenticates cloud providers.
	APIKey string

	// BaseURL overrides the provider endpoint.
	BaseURL string
}

// IsConfigured returns true when the settings can produce a usable service.
func (s *LLMSettings) IsConfigured() bool {
	if s == nil || !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// Retrieval and chunking defaults, from the pipeline configuration.
const (
	// DefaultChunkSize is the chunk window in characters.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the overlap between consecutive chunks.
	DefaultChunkOverlap = 200

	// DefaultMinChunkLength is the floor below which chunks are discarded.
	DefaultMinChunkLength = 50

	// DefaultRetrievalK is the retrieval width.
	DefaultRetrievalK = 5

	// DefaultSimilarityThreshold is deliberately low so sparse corpora
	// are not starved of results.
	DefaultSimilarityThreshold = 0.1

	// MaxUploadSize caps ingested files at 10MB.
	MaxUploadSize = 10 * 1024 * 1024
)

// PipelineSettings configures chunking and retrieval behaviour.
type PipelineSettings struct {
	// ChunkSize is the chunk window in characters.
	ChunkSize int

	// ChunkOverlap is the overlap between consecutive chunks.
	ChunkOverlap int

	// MinChunkLength is the floor below which chunks are discarded.
	MinChunkLength int

	// RetrievalK is the number of chunks to retrieve per query.
	RetrievalK int

	// SimilarityThreshold filters out low-similarity matches.
	SimilarityThreshold float64
}

// DefaultPipelineSettings returns the stock pipeline configuration.
func DefaultPipelineSettings() PipelineSettings {
	return PipelineSettings{
		ChunkSize:           DefaultChunkSize,
		ChunkOverlap:        DefaultChunkOverlap,
		MinChunkLength:      DefaultMinChunkLength,
		RetrievalK:          DefaultRetrievalK,
		SimilarityThreshold: DefaultSimilarityThreshold,
	}
}
