package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index and pipeline status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	status := pipelineService.Status(context.Background())

	cmd.Printf("Status:               %s\n", status.Status)
	cmd.Printf("Documents:            %d\n", status.TotalDocuments)
	cmd.Printf("Chunks:               %d\n", status.TotalChunks)
	cmd.Printf("Embedding model:      %s\n", status.EmbeddingModel)

	backends := "none (extractive fallback only)"
	if len(status.GenerationBackends) > 0 {
		backends = strings.Join(status.GenerationBackends, " > ")
	}
	cmd.Printf("Generation backends:  %s\n", backends)

	cmd.Println()
	cmd.Printf("Chunk size:           %d\n", status.ChunkSize)
	cmd.Printf("Chunk overlap:        %d\n", status.ChunkOverlap)
	cmd.Printf("Retrieval K:          %d\n", status.RetrievalK)
	cmd.Printf("Similarity threshold: %.2f\n", status.SimilarityThreshold)
	return nil
}
