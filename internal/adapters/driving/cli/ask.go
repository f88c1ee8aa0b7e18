package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

var (
	askDocumentID  string
	askTemperature float64
	askMaxTokens   int
	askJSON        bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about ingested documents",
	Long: `Retrieves the chunks most similar to the question and generates an
answer from them, citing the source pages. Retrieval can be scoped to
a single document with --document.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askDocumentID, "document", "d", "", "restrict retrieval to one document ID")
	askCmd.Flags().Float64VarP(&askTemperature, "temperature", "t", 0, "generation temperature (0-1)")
	askCmd.Flags().IntVarP(&askMaxTokens, "max-tokens", "m", 0, "maximum answer length in tokens")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the full result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	req := domain.AskRequest{
		Message:     strings.Join(args, " "),
		DocumentID:  askDocumentID,
		Temperature: askTemperature,
		MaxTokens:   askMaxTokens,
	}

	result := pipelineService.Ask(context.Background(), req)

	if askJSON {
		return outputAskJSON(cmd, result)
	}

	cmd.Println(result.Response)
	if !result.Success {
		return errors.New("question could not be answered")
	}

	if len(result.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, source := range result.Sources {
			cmd.Printf("  - %s\n", source)
		}
	}
	cmd.Println()
	cmd.Printf("Confidence: %.2f  (%.2fs)\n", result.Confidence, result.ProcessingTime)
	return nil
}

func outputAskJSON(cmd *cobra.Command, result domain.AnswerResult) error {
	payload := struct {
		Success        bool     `json:"success"`
		Response       string   `json:"response"`
		Sources        []string `json:"sources"`
		Confidence     float64  `json:"confidence"`
		ProcessingTime float64  `json:"processing_time"`
	}{
		Success:        result.Success,
		Response:       result.Response,
		Sources:        result.Sources,
		Confidence:     result.Confidence,
		ProcessingTime: result.ProcessingTime,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
