package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest documents into the index",
	Long: `Extracts text from the given files, cuts it into overlapping chunks,
embeds each chunk and stores the vectors in the local index.

Plain-text formats are supported (.txt, .md). Pages are recognised by
'--- Page N ---' markers; files without markers count as one page.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	ctx := context.Background()
	failures := 0

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			cmd.Printf("✗ %s: %v\n", path, err)
			failures++
			continue
		}

		result := pipelineService.UploadDocument(ctx, data, filepath.Base(path))
		if !result.Success {
			cmd.Printf("✗ %s: %s\n", path, result.Message)
			failures++
			continue
		}

		cmd.Printf("✓ %s\n", result.Message)
		cmd.Printf("  Document ID: %s\n", result.DocumentID)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d files failed", failures, len(args))
	}
	return nil
}
