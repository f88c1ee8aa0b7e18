package driving

import (
	"context"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// PipelineService is the public operation surface of the RAG core.
// Every failure is converted into a structured result at this boundary;
// callers never see raw faults.
type PipelineService interface {
	// UploadDocument ingests raw file bytes: extract, chunk, embed, store.
	UploadDocument(ctx context.Context, data []byte, filename string) domain.UploadResult

	// Ask answers a question against the ingested corpus.
	Ask(ctx context.Context, req domain.AskRequest) domain.AnswerResult

	// DeleteDocument removes a document and all of its chunks. Returns
	// false when the document was not present.
	DeleteDocument(ctx context.Context, documentID string) (bool, error)

	// Status reports index and configuration state.
	Status(ctx context.Context) domain.SystemStatus
}
