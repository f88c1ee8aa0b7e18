package domain

import "time"

// Document represents an ingested document.
// It is created on successful ingest and removed, together with all of
// its chunks, on explicit deletion.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Filename is the original display name supplied at upload.
	Filename string

	// PageCount is the number of pages that produced chunks.
	PageCount int

	// ChunkCount is the number of chunks stored for this document.
	ChunkCount int

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Chunk represents an embeddable unit of document text.
// Documents are split into overlapping chunks aligned to sentence
// boundaries; chunks are immutable after ingest.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// PageNumber is the source page this chunk was cut from.
	PageNumber int

	// ChunkIndex is the ordinal position within the document.
	ChunkIndex int

	// Metadata contains chunk-specific key-value pairs
	// (filename, chunk_length, page_number).
	Metadata map[string]any
}

// Page is a pre-segmented page of extracted document text.
type Page struct {
	// Number is the 1-based page number from the extraction markers.
	Number int

	// Text is the extracted page text.
	Text string
}

// RetrievedChunk joins a chunk's content and metadata with a similarity
// score and rank. It is valid only for the lifetime of one query.
type RetrievedChunk struct {
	// Content is the chunk text.
	Content string

	// Metadata is the stored chunk metadata.
	Metadata map[string]any

	// Similarity is 1 - cosine distance to the query vector, in [0,1].
	Similarity float64

	// Rank is the 1-based position in the result list.
	Rank int
}

// Filename returns the source filename recorded in the chunk metadata,
// or a placeholder when the metadata is missing.
func (r RetrievedChunk) Filename() string {
	if name, ok := r.Metadata["filename"].(string); ok && name != "" {
		return name
	}
	return "Unknown document"
}

// PageNumber returns the source page recorded in the chunk metadata.
// Metadata round-tripped through JSON stores numbers as float64.
func (r RetrievedChunk) PageNumber() int {
	switch v := r.Metadata["page_number"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// DocumentStats describes the stored footprint of one document.
type DocumentStats struct {
	// ChunkCount is the number of chunks stored for the document.
	ChunkCount int

	// PageCount is the number of distinct pages among those chunks.
	PageCount int
}

// IndexStats describes the stored footprint of the whole index.
type IndexStats struct {
	// TotalChunks is the number of chunks across all documents.
	TotalChunks int

	// TotalDocuments is the number of documents with at least one chunk.
	TotalDocuments int
}
