package domain

import "strings"

// Generation parameter bounds. Requests outside these ranges are
// clamped rather than rejected.
const (
	// DefaultTemperature is used when the request leaves it unset.
	DefaultTemperature = 0.7

	// DefaultMaxTokens is used when the request leaves it unset.
	DefaultMaxTokens = 500

	// MinMaxTokens and MaxMaxTokens bound the answer length budget.
	MinMaxTokens = 50
	MaxMaxTokens = 2000

	// MaxQueryLength caps the user question size.
	MaxQueryLength = 1000
)

// ChatTurn is one prior message in a conversation.
type ChatTurn struct {
	// Role is "user" or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// AskRequest is an ephemeral question against the ingested corpus.
// It is not persisted by the core.
type AskRequest struct {
	// Message is the user question.
	Message string

	// DocumentID optionally scopes retrieval to one document.
	DocumentID string

	// History holds prior conversation turns, oldest first.
	History []ChatTurn

	// Temperature controls generation randomness, clamped to [0,1].
	Temperature float64

	// MaxTokens bounds the generated answer length.
	MaxTokens int
}

// Validate rejects empty, whitespace-only, or oversized questions.
func (r *AskRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return ErrInvalidInput
	}
	if len(r.Message) > MaxQueryLength {
		return ErrInvalidInput
	}
	return nil
}

// ApplyDefaults fills unset generation parameters and clamps the rest
// into their allowed ranges.
func (r *AskRequest) ApplyDefaults() {
	if r.Temperature <= 0 {
		r.Temperature = DefaultTemperature
	}
	if r.Temperature > 1 {
		r.Temperature = 1
	}
	if r.MaxTokens <= 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	if r.MaxTokens < MinMaxTokens {
		r.MaxTokens = MinMaxTokens
	}
	if r.MaxTokens > MaxMaxTokens {
		r.MaxTokens = MaxMaxTokens
	}
}

// AnswerResult is the outcome of one Ask call. Ephemeral; returned to
// the caller and never persisted.
type AnswerResult struct {
	// Success is false only on internal failure. A "no relevant
	// information" answer is a normal outcome with Success true.
	Success bool

	// Response is the generated answer text. Never empty: the canned
	// and extractive fallbacks guarantee some answer.
	Response string

	// Sources lists one formatted citation per retrieved chunk, in
	// retrieval rank order.
	Sources []string

	// Confidence is in [0,1]. Zero retrieved chunks means exactly 0.
	Confidence float64

	// ProcessingTime is the measured duration of the whole query path,
	// in seconds.
	ProcessingTime float64
}

// UploadResult is the outcome of one document ingest.
type UploadResult struct {
	// Success indicates the document was fully ingested.
	Success bool

	// Message is a human-readable status or failure reason.
	Message string

	// DocumentID identifies the ingested document. Empty on failure
	// before an ID was assigned.
	DocumentID string

	// Filename is the original upload name.
	Filename string

	// PagesProcessed is the number of distinct pages that produced chunks.
	PagesProcessed int

	// ChunksCreated is the number of chunks cut from the document.
	// On storage failure it carries the partial count for diagnostics.
	ChunksCreated int
}

// SystemStatus reports index and model configuration state.
type SystemStatus struct {
	// Status is "healthy" or "error".
	Status string

	// TotalChunks is the number of chunks in the vector index.
	TotalChunks int

	// TotalDocuments is the number of documents with stored chunks.
	TotalDocuments int

	// EmbeddingModel names the embedding model in use.
	EmbeddingModel string

	// GenerationBackends names the configured generation backends in
	// priority order.
	GenerationBackends []string

	// ChunkSize, ChunkOverlap, RetrievalK and SimilarityThreshold echo
	// the active pipeline configuration.
	ChunkSize           int
	ChunkOverlap        int
	RetrievalK          int
	SimilarityThreshold float64
}
