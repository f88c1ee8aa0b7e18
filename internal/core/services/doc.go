// Package services implements the driving port interfaces.
// The pipeline service orchestrates the ingest and question-answering
// flows across the driven ports (extraction, embedding, vector storage,
// generation); the generator walks the backend chain and owns the
// extractive fallback.
//
// Services are pure Go with no external dependencies.
package services
