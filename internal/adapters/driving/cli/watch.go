package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/docsage-labs/docsage-cli/internal/logger"
)

// settleDelay lets a file finish being written before it is ingested.
const settleDelay = 500 * time.Millisecond

var watchExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".text": true,
}

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest new documents automatically",
	Long: `Watches the given directory and ingests supported files as they are
created or modified. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot watch %s: not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", dir)
	return watchLoop(ctx, cmd, watcher)
}

// watchLoop ingests files as watcher events arrive. Writes are debounced
// per file with a settle timer so a file copied in several writes is
// ingested once.
func watchLoop(ctx context.Context, cmd *cobra.Command, watcher *fsnotify.Watcher) error {
	pending := make(map[string]*time.Timer)
	ingested := make(chan string)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !watchExtensions[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}

			path := event.Name
			if timer, ok := pending[path]; ok {
				timer.Reset(settleDelay)
				continue
			}
			pending[path] = time.AfterFunc(settleDelay, func() {
				select {
				case ingested <- path:
				case <-ctx.Done():
				}
			})

		case path := <-ingested:
			delete(pending, path)
			ingestWatched(ctx, cmd, path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

func ingestWatched(ctx context.Context, cmd *cobra.Command, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		cmd.Printf("✗ %s: %v\n", path, err)
		return
	}

	result := pipelineService.UploadDocument(ctx, data, filepath.Base(path))
	if !result.Success {
		cmd.Printf("✗ %s: %s\n", path, result.Message)
		return
	}
	cmd.Printf("✓ %s (document %s)\n", result.Message, result.DocumentID)
}
