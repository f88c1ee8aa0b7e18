package driven

import (
	"context"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// VectorIndex owns chunk and embedding storage and answers similarity
// queries. Mutations are atomic per call; concurrent ingests of
// different documents may proceed in parallel.
type VectorIndex interface {
	// Store appends chunks with their vectors. It rejects mismatched
	// lengths and vectors whose dimensionality differs from the index
	// configuration with domain.ErrInvalidInput. Partial failure of the
	// underlying store is reported as failure with no partial commit.
	Store(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error

	// Search returns chunks ranked by descending similarity to the
	// query vector, filtered by the options' threshold. Ties preserve
	// insertion order. A document filter that matches nothing returns
	// an empty result; the index never widens the filter itself.
	Search(ctx context.Context, query []float32, opts SearchOptions) ([]domain.RetrievedChunk, error)

	// DocumentStats returns the chunk and distinct page counts for one
	// document. A document with no chunks yields zero counts, not an error.
	DocumentStats(ctx context.Context, documentID string) (domain.DocumentStats, error)

	// Stats returns index-wide counts.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// DeleteDocument removes all chunks for the document in one atomic
	// operation. Returns false when the document had no chunks.
	DeleteDocument(ctx context.Context, documentID string) (bool, error)

	// Dimensions returns the configured vector size.
	Dimensions() int

	// Close releases resources.
	Close() error
}

// SearchOptions configures a similarity search.
type SearchOptions struct {
	// DocumentID restricts results to one document when non-empty.
	DocumentID string

	// K is the maximum number of results. Zero means the configured
	// default retrieval width.
	K int

	// Threshold drops results below this similarity. Negative means
	// the configured default.
	Threshold float64
}
