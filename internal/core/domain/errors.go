package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	// Rejected before any I/O takes place.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyDocument indicates no chunks survived extraction and
	// filtering, so there is nothing to ingest.
	ErrEmptyDocument = errors.New("no text content could be extracted")

	// ErrEmbeddingUnavailable indicates the embedding service is
	// unreachable or misconfigured. Fatal to the current operation:
	// ingest must fail rather than skip chunks, and queries must not
	// silently return empty results.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrStorageFailure indicates a vector index read or write failed.
	// Ingest aborts; queries degrade to "no results".
	ErrStorageFailure = errors.New("vector storage failure")

	// ErrGenerationExhausted indicates every configured generation
	// backend failed. The generator falls back to the extractive
	// responder rather than failing the query.
	ErrGenerationExhausted = errors.New("all generation backends failed")

	// ErrExtractionFailed indicates document text extraction failed.
	// Surfaces as a document-level failure, never an empty document.
	ErrExtractionFailed = errors.New("text extraction failed")
)
