package cli

import (
	"bytes"
	"context"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// stubPipeline is a canned PipelineService for command tests.
type stubPipeline struct {
	uploadResult domain.UploadResult
	askResult    domain.AnswerResult
	lastAsk      domain.AskRequest
	deleted      bool
	deleteErr    error
	status       domain.SystemStatus
}

func (s *stubPipeline) UploadDocument(_ context.Context, _ []byte, filename string) domain.UploadResult {
	result := s.uploadResult
	result.Filename = filename
	return result
}

func (s *stubPipeline) Ask(_ context.Context, req domain.AskRequest) domain.AnswerResult {
	s.lastAsk = req
	return s.askResult
}

func (s *stubPipeline) DeleteDocument(_ context.Context, _ string) (bool, error) {
	return s.deleted, s.deleteErr
}

func (s *stubPipeline) Status(_ context.Context) domain.SystemStatus {
	return s.status
}

// setupTestServices installs a stub pipeline and returns it with a cleanup
// that restores the previous state.
func setupTestServices(stub *stubPipeline) func() {
	previous := pipelineService
	pipelineService = stub
	return func() {
		pipelineService = previous
	}
}

// executeCommand runs the root command with args and captures its output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
