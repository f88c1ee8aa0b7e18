// Package memory provides an in-memory VectorIndex for tests and
// ephemeral runs. Contents are lost on process exit.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// entry pairs a chunk with its embedding vector.
type entry struct {
	chunk  domain.Chunk
	vector []float32
}

// Index is an in-memory vector index.
type Index struct {
	mu               sync.RWMutex
	entries          []entry
	dimensions       int
	defaultK         int
	defaultThreshold float64
}

// NewIndex creates an in-memory index for vectors of the given size.
func NewIndex(dimensions int) *Index {
	return &Index{
		dimensions:       dimensions,
		defaultK:         domain.DefaultRetrievalK,
		defaultThreshold: domain.DefaultSimilarityThreshold,
	}
}

// Store appends chunks with their vectors.
func (idx *Index) Store(_ context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("memory: %d chunks but %d vectors: %w", len(chunks), len(vectors), domain.ErrInvalidInput)
	}
	for i, vec := range vectors {
		if len(vec) != idx.dimensions {
			return fmt.Errorf("memory: vector %d has %d dimensions, index expects %d: %w",
				i, len(vec), idx.dimensions, domain.ErrInvalidInput)
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	for i, chunk := range chunks {
		idx.entries = append(idx.entries, entry{chunk: chunk, vector: vectors[i]})
	}
	return nil
}

// Search ranks stored chunks by cosine similarity to the query vector.
func (idx *Index) Search(_ context.Context, query []float32, opts driven.SearchOptions) ([]domain.RetrievedChunk, error) {
	if len(query) != idx.dimensions {
		return nil, fmt.Errorf("memory: query has %d dimensions, index expects %d: %w",
			len(query), idx.dimensions, domain.ErrInvalidInput)
	}

	k := opts.K
	if k <= 0 {
		k = idx.defaultK
	}
	threshold := opts.Threshold
	if threshold < 0 {
		threshold = idx.defaultThreshold
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var results []domain.RetrievedChunk
	for _, e := range idx.entries {
		if opts.DocumentID != "" && e.chunk.DocumentID != opts.DocumentID {
			continue
		}
		similarity := cosineSimilarity(query, e.vector)
		if similarity < threshold {
			continue
		}
		results = append(results, domain.RetrievedChunk{
			Content:    e.chunk.Content,
			Metadata:   e.chunk.Metadata,
			Similarity: similarity,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > k {
		results = results[:k]
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}

// DocumentStats returns chunk and distinct page counts for a document.
func (idx *Index) DocumentStats(_ context.Context, documentID string) (domain.DocumentStats, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	pages := make(map[int]struct{})
	var stats domain.DocumentStats
	for _, e := range idx.entries {
		if e.chunk.DocumentID != documentID {
			continue
		}
		stats.ChunkCount++
		pages[e.chunk.PageNumber] = struct{}{}
	}
	stats.PageCount = len(pages)
	return stats, nil
}

// Stats returns index-wide counts.
func (idx *Index) Stats(_ context.Context) (domain.IndexStats, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	docs := make(map[string]struct{})
	for _, e := range idx.entries {
		docs[e.chunk.DocumentID] = struct{}{}
	}
	return domain.IndexStats{
		TotalChunks:    len(idx.entries),
		TotalDocuments: len(docs),
	}, nil
}

// DeleteDocument removes all chunks for the document.
func (idx *Index) DeleteDocument(_ context.Context, documentID string) (bool, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	kept := idx.entries[:0]
	deleted := false
	for _, e := range idx.entries {
		if e.chunk.DocumentID == documentID {
			deleted = true
			continue
		}
		kept = append(kept, e)
	}
	idx.entries = kept
	return deleted, nil
}

// Dimensions returns the configured vector size.
func (idx *Index) Dimensions() int {
	return idx.dimensions
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

// cosineSimilarity computes the cosine similarity of two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
