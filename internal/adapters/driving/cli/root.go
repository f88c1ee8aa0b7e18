// Package cli implements the docsage command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/docsage-labs/docsage-cli/internal/core/ports/driving"
	"github.com/docsage-labs/docsage-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// pipelineService is injected by the composition root before Execute.
var pipelineService driving.PipelineService

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docsage",
	Short: "Ask questions about your documents",
	Long: `Docsage ingests plain-text documents into a local vector index and
answers questions about them using retrieval-augmented generation.

Ingest documents with 'docsage ingest', then query them with
'docsage ask'. Answers cite the source pages they were drawn from.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
}

// SetPipelineService injects the pipeline implementation used by all
// commands. Must be called before Execute.
func SetPipelineService(svc driving.PipelineService) {
	pipelineService = svc
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
