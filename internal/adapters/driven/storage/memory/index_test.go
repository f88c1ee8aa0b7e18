package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

func chunk(id, docID string, page int) domain.Chunk {
	return domain.Chunk{
		ID:         id,
		DocumentID: docID,
		Content:    "content of " + id,
		PageNumber: page,
		Metadata:   map[string]any{"filename": "test.txt", "page_number": page},
	}
}

func TestStoreAndSearch(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex(3)

	require.NoError(t, idx.Store(ctx,
		[]domain.Chunk{chunk("c1", "doc-1", 1), chunk("c2", "doc-1", 2), chunk("c3", "doc-2", 1)},
		[][]float32{{1, 0, 0}, {1, 1, 0}, {0, 0, 1}}))

	t.Run("orders by similarity", func(t *testing.T) {
		results, err := idx.Search(ctx, []float32{1, 0, 0}, driven.SearchOptions{K: 5, Threshold: 0.1})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "content of c1", results[0].Content)
		assert.Equal(t, 1, results[0].Rank)
	})

	t.Run("document filter", func(t *testing.T) {
		results, err := idx.Search(ctx, []float32{1, 0, 0}, driven.SearchOptions{DocumentID: "doc-2", K: 5, Threshold: 0})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "content of c3", results[0].Content)
	})

	t.Run("dimension mismatch rejected", func(t *testing.T) {
		_, err := idx.Search(ctx, []float32{1, 0}, driven.SearchOptions{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestStoreValidation(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex(3)

	err := idx.Store(ctx, []domain.Chunk{chunk("c1", "doc-1", 1)}, [][]float32{{1, 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = idx.Store(ctx, []domain.Chunk{chunk("c1", "doc-1", 1)}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStatsAndDelete(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex(3)

	require.NoError(t, idx.Store(ctx,
		[]domain.Chunk{chunk("c1", "doc-1", 1), chunk("c2", "doc-1", 2), chunk("c3", "doc-2", 1)},
		[][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}))

	stats, err := idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalChunks)
	assert.Equal(t, 2, stats.TotalDocuments)

	docStats, err := idx.DocumentStats(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 2, docStats.ChunkCount)
	assert.Equal(t, 2, docStats.PageCount)

	deleted, err := idx.DeleteDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = idx.DeleteDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.False(t, deleted)

	stats, err = idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalChunks)
}
