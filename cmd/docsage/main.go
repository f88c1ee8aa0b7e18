package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/docsage-labs/docsage-cli/internal/adapters/driven/ai"
	"github.com/docsage-labs/docsage-cli/internal/adapters/driven/storage/sqlite"
	"github.com/docsage-labs/docsage-cli/internal/adapters/driving/cli"
	"github.com/docsage-labs/docsage-cli/internal/config"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
	"github.com/docsage-labs/docsage-cli/internal/core/services"
	"github.com/docsage-labs/docsage-cli/internal/extract/markdown"
	"github.com/docsage-labs/docsage-cli/internal/extract/plaintext"
	"github.com/docsage-labs/docsage-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; provider keys can come from the real environment.
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	embedder, err := ai.CreateEmbeddingService(cfg.EmbeddingSettings())
	if err != nil {
		return err
	}
	if embedder == nil {
		return errors.New("no embedding provider configured; set embedding.provider in the config file")
	}
	defer embedder.Close()

	settings := cfg.PipelineSettings()

	dataDir := cfg.Storage.DataDir
	if dataDir == "" {
		home, err := config.HomeDir()
		if err != nil {
			return err
		}
		dataDir = filepath.Join(home, "data")
	}

	index, err := sqlite.NewIndex(sqlite.Config{
		DataDir:          dataDir,
		Dimensions:       embedder.Dimensions(),
		DefaultK:         settings.RetrievalK,
		DefaultThreshold: settings.SimilarityThreshold,
	})
	if err != nil {
		return fmt.Errorf("opening vector index: %w", err)
	}
	defer index.Close()

	chain, warnings := ai.BuildGenerationChain(cfg.GenerationSettings())
	for _, w := range warnings {
		logger.Warn("Generation backend skipped: %s", w)
	}
	defer func() {
		for _, svc := range chain {
			svc.Close()
		}
	}()

	pipeline := services.NewPipeline(
		[]driven.TextExtractor{plaintext.New(), markdown.New()},
		embedder,
		index,
		services.NewGenerator(chain, services.DefaultProviderTimeout),
		settings,
	)

	cli.SetPipelineService(pipeline)
	cli.SetVersion(version)
	return cli.Execute()
}
