package services

import (
	"context"
	"fmt"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// It returns a fixed-dimension vector derived from the text length so
// identical texts embed identically.
type mockEmbeddingService struct {
	dims     int
	embedErr error
	calls    int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	vec := make([]float32, m.dims)
	for i := range vec {
		vec[i] = float32(len(text)%7) + float32(i)
	}
	return vec, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int               { return m.dims }
func (m *mockEmbeddingService) ModelName() string             { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error  { return nil }
func (m *mockEmbeddingService) Close() error                  { return nil }

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	name     string
	response string
	err      error
	calls    int
}

func (m *mockLLMService) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	m.calls++
	return m.response, m.err
}

func (m *mockLLMService) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.calls++
	return m.response, m.err
}

func (m *mockLLMService) ProviderName() string           { return m.name }
func (m *mockLLMService) ModelName() string              { return m.name + "-model" }
func (m *mockLLMService) Ping(_ context.Context) error   { return m.err }
func (m *mockLLMService) Close() error                   { return nil }

// recordingLLMService captures the messages it was called with.
type recordingLLMService struct {
	mockLLMService
	lastMessages []driven.ChatMessage
	lastOpts     driven.ChatOptions
}

func (m *recordingLLMService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.calls++
	m.lastMessages = messages
	m.lastOpts = opts
	return m.response, m.err
}

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	results    []domain.RetrievedChunk
	searchErr  error
	storeErr   error
	deleteErr  error
	statsErr   error
	stored     []domain.Chunk
	deleted    bool
	lastOpts   driven.SearchOptions
	searches   int
	totalDocs  int
}

func (m *mockVectorIndex) Store(_ context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if m.storeErr != nil {
		return m.storeErr
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("length mismatch: %w", domain.ErrInvalidInput)
	}
	m.stored = append(m.stored, chunks...)
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, opts driven.SearchOptions) ([]domain.RetrievedChunk, error) {
	m.searches++
	m.lastOpts = opts
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if opts.DocumentID != "" {
		// Filtered searches return nothing unless a stored chunk matches.
		var filtered []domain.RetrievedChunk
		for _, r := range m.results {
			if id, ok := r.Metadata["document_id"].(string); ok && id == opts.DocumentID {
				filtered = append(filtered, r)
			}
		}
		return filtered, nil
	}
	return m.results, nil
}

func (m *mockVectorIndex) DocumentStats(_ context.Context, documentID string) (domain.DocumentStats, error) {
	pages := make(map[int]struct{})
	var stats domain.DocumentStats
	for _, c := range m.stored {
		if c.DocumentID == documentID {
			stats.ChunkCount++
			pages[c.PageNumber] = struct{}{}
		}
	}
	stats.PageCount = len(pages)
	return stats, nil
}

func (m *mockVectorIndex) Stats(_ context.Context) (domain.IndexStats, error) {
	if m.statsErr != nil {
		return domain.IndexStats{}, m.statsErr
	}
	return domain.IndexStats{TotalChunks: len(m.stored) + len(m.results), TotalDocuments: m.totalDocs}, nil
}

func (m *mockVectorIndex) DeleteDocument(_ context.Context, _ string) (bool, error) {
	if m.deleteErr != nil {
		return false, m.deleteErr
	}
	was := m.deleted
	m.deleted = true
	return !was, nil
}

func (m *mockVectorIndex) Dimensions() int { return 3 }
func (m *mockVectorIndex) Close() error    { return nil }

// retrieved builds a RetrievedChunk with standard metadata.
func retrieved(content, filename string, page int, similarity float64) domain.RetrievedChunk {
	return domain.RetrievedChunk{
		Content:    content,
		Similarity: similarity,
		Metadata: map[string]any{
			"filename":    filename,
			"page_number": page,
		},
	}
}
