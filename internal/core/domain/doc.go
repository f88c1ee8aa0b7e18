// Package domain defines the core business entities for Docsage.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested document with metadata
//   - Chunk: An embeddable unit of document text
//   - RetrievedChunk: A chunk joined with its similarity score for one query
//   - AskRequest / AnswerResult: The question-answering contract
//   - UploadResult / SystemStatus: The ingest and status contracts
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
