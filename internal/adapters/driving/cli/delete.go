package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Delete a document and its chunks from the index",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	documentID := args[0]
	deleted, err := pipelineService.DeleteDocument(context.Background(), documentID)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	if !deleted {
		cmd.Printf("No document found with ID %s\n", documentID)
		return nil
	}
	cmd.Printf("Deleted document %s\n", documentID)
	return nil
}
