// Package config loads and persists the docsage configuration file.
//
// Settings live in a TOML file under the docsage home directory
// (~/.docsage by default). API keys are never written to the file;
// they are read from the environment so that a shared config file
// cannot leak credentials.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// Environment variables holding provider credentials and overrides.
const (
	EnvCohereAPIKey    = "COHERE_API_KEY"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvOllamaBaseURL   = "OLLAMA_BASE_URL"
	EnvHomeDir         = "DOCSAGE_HOME"
)

// FileName is the config file name inside the docsage home directory.
const FileName = "config.toml"

// Config is the on-disk configuration shape.
type Config struct {
	Embedding  EmbeddingConfig           `toml:"embedding"`
	Generation map[string]ProviderConfig `toml:"generation"`
	Pipeline   PipelineConfig            `toml:"pipeline"`
	Storage    StorageConfig             `toml:"storage"`
}

// EmbeddingConfig selects and tunes the embedding provider.
type EmbeddingConfig struct {
	Provider   string `toml:"provider"`
	Model      string `toml:"model"`
	BaseURL    string `toml:"base_url,omitempty"`
	Dimensions int    `toml:"dimensions,omitempty"`
}

// ProviderConfig tunes one generation backend. The API key is taken from
// the environment, not from this file.
type ProviderConfig struct {
	Model   string `toml:"model,omitempty"`
	BaseURL string `toml:"base_url,omitempty"`
	Enabled *bool  `toml:"enabled,omitempty"`
}

// PipelineConfig tunes chunking and retrieval.
type PipelineConfig struct {
	ChunkSize           int     `toml:"chunk_size"`
	ChunkOverlap        int     `toml:"chunk_overlap"`
	MinChunkLength      int     `toml:"min_chunk_length"`
	RetrievalK          int     `toml:"retrieval_k"`
	SimilarityThreshold float64 `toml:"similarity_threshold"`
}

// StorageConfig locates the vector index.
type StorageConfig struct {
	DataDir string `toml:"data_dir,omitempty"`
}

// Default returns the stock configuration: Ollama embeddings (no
// credentials needed) and every generation backend enabled with its
// default model.
func Default() Config {
	defaults := domain.DefaultPipelineSettings()
	generation := make(map[string]ProviderConfig, len(domain.GenerationPriority))
	for _, p := range domain.GenerationPriority {
		generation[p.String()] = ProviderConfig{}
	}
	return Config{
		Embedding: EmbeddingConfig{
			Provider: domain.AIProviderOllama.String(),
		},
		Generation: generation,
		Pipeline: PipelineConfig{
			ChunkSize:           defaults.ChunkSize,
			ChunkOverlap:        defaults.ChunkOverlap,
			MinChunkLength:      defaults.MinChunkLength,
			RetrievalK:          defaults.RetrievalK,
			SimilarityThreshold: defaults.SimilarityThreshold,
		},
	}
}

// HomeDir returns the docsage home directory, honouring DOCSAGE_HOME.
func HomeDir() (string, error) {
	if dir := os.Getenv(EnvHomeDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".docsage"), nil
}

// Load reads the config file at path, layering it over the defaults.
// A missing file is not an error and yields the defaults. An empty path
// resolves to the file inside the docsage home directory.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		dir, err := HomeDir()
		if err != nil {
			return cfg, err
		}
		path = filepath.Join(dir, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path with restricted permissions, creating
// the parent directory if needed. An empty path resolves as in Load.
func Save(path string, cfg Config) error {
	if path == "" {
		dir, err := HomeDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, FileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// EmbeddingSettings converts the embedding section into domain settings,
// pulling the API key from the environment for cloud providers.
func (c Config) EmbeddingSettings() *domain.EmbeddingSettings {
	provider := domain.AIProvider(c.Embedding.Provider)
	settings := &domain.EmbeddingSettings{
		Provider:   provider,
		Model:      c.Embedding.Model,
		BaseURL:    c.Embedding.BaseURL,
		Dimensions: c.Embedding.Dimensions,
	}
	if provider == domain.AIProviderOpenAI {
		settings.APIKey = os.Getenv(EnvOpenAIAPIKey)
	}
	return settings
}

// GenerationSettings converts the generation section into one domain
// settings value per enabled backend. Credentials come from the
// environment; backends whose key is absent are still returned and are
// filtered later by their configured state.
func (c Config) GenerationSettings() []domain.LLMSettings {
	out := make([]domain.LLMSettings, 0, len(c.Generation))
	for _, provider := range domain.GenerationPriority {
		pc, ok := c.Generation[provider.String()]
		if !ok || (pc.Enabled != nil && !*pc.Enabled) {
			continue
		}

		settings := domain.LLMSettings{
			Provider: provider,
			Model:    pc.Model,
			BaseURL:  pc.BaseURL,
		}
		switch provider {
		case domain.AIProviderCohere:
			settings.APIKey = os.Getenv(EnvCohereAPIKey)
		case domain.AIProviderOpenAI:
			settings.APIKey = os.Getenv(EnvOpenAIAPIKey)
		case domain.AIProviderAnthropic:
			settings.APIKey = os.Getenv(EnvAnthropicAPIKey)
		case domain.AIProviderOllama:
			if settings.BaseURL == "" {
				settings.BaseURL = os.Getenv(EnvOllamaBaseURL)
			}
		}
		out = append(out, settings)
	}
	return out
}

// PipelineSettings converts the pipeline section into domain settings,
// falling back to the defaults for unset or invalid values.
func (c Config) PipelineSettings() domain.PipelineSettings {
	settings := domain.DefaultPipelineSettings()
	if c.Pipeline.ChunkSize > 0 {
		settings.ChunkSize = c.Pipeline.ChunkSize
	}
	if c.Pipeline.ChunkOverlap >= 0 && c.Pipeline.ChunkOverlap < settings.ChunkSize {
		settings.ChunkOverlap = c.Pipeline.ChunkOverlap
	}
	if c.Pipeline.MinChunkLength > 0 {
		settings.MinChunkLength = c.Pipeline.MinChunkLength
	}
	if c.Pipeline.RetrievalK > 0 {
		settings.RetrievalK = c.Pipeline.RetrievalK
	}
	if c.Pipeline.SimilarityThreshold >= 0 && c.Pipeline.SimilarityThreshold <= 1 {
		settings.SimilarityThreshold = c.Pipeline.SimilarityThreshold
	}
	return settings
}
