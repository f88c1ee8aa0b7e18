package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docsage-labs/docsage-cli/internal/chunker"
	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driving"
	"github.com/docsage-labs/docsage-cli/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.PipelineService = (*Pipeline)(nil)

// noInfoResponse is returned when retrieval finds nothing relevant.
const noInfoResponse = "I couldn't find relevant information in the documents to answer your question. " +
	"Please try rephrasing your question or upload a relevant document."

// Pipeline orchestrates the ingest and query paths: extraction,
// chunking, embedding, vector storage, retrieval and generation.
type Pipeline struct {
	extractors map[string]driven.TextExtractor
	chunker    *chunker.Chunker
	embedder   driven.EmbeddingService
	index      driven.VectorIndex
	generator  *Generator
	settings   domain.PipelineSettings
}

// NewPipeline creates a pipeline service. Extractors are registered by
// the extensions they support; later extractors win conflicts.
func NewPipeline(
	extractors []driven.TextExtractor,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	generator *Generator,
	settings domain.PipelineSettings,
) *Pipeline {
	byExt := make(map[string]driven.TextExtractor)
	for _, ex := range extractors {
		for _, ext := range ex.SupportedExtensions() {
			byExt[strings.ToLower(ext)] = ex
		}
	}

	return &Pipeline{
		extractors: byExt,
		chunker: chunker.New(
			chunker.WithChunkSize(settings.ChunkSize),
			chunker.WithOverlap(settings.ChunkOverlap),
			chunker.WithMinChunkLength(settings.MinChunkLength),
		),
		embedder:  embedder,
		index:     index,
		generator: generator,
		settings:  settings,
	}
}

// UploadDocument ingests raw file bytes: extract, chunk, embed, store.
// Every failure becomes a structured result; nothing propagates raw.
func (p *Pipeline) UploadDocument(ctx context.Context, data []byte, filename string) domain.UploadResult {
	logger.Section("Document Upload")
	logger.Info("Ingesting %q (%d bytes)", filename, len(data))

	fail := func(msg string) domain.UploadResult {
		logger.Warn("Upload of %q failed: %s", filename, msg)
		return domain.UploadResult{Success: false, Message: msg, Filename: filename}
	}

	if len(data) == 0 {
		return fail("file is empty")
	}
	if len(data) > domain.MaxUploadSize {
		return fail(fmt.Sprintf("file exceeds the %dMB upload limit", domain.MaxUploadSize/(1024*1024)))
	}

	ext := strings.ToLower(filepath.Ext(filename))
	extractor, ok := p.extractors[ext]
	if !ok {
		return fail(fmt.Sprintf("unsupported file type %q", ext))
	}

	pages, err := extractor.Extract(ctx, data, filename)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyDocument) {
			return fail("document contains no extractable text")
		}
		return fail(fmt.Sprintf("text extraction failed: %v", err))
	}
	logger.Debug("Extracted %d pages", len(pages))

	documentID := uuid.New().String()
	chunks := p.chunker.ChunkPages(documentID, filename, pages)
	if len(chunks) == 0 {
		return fail("document contains no extractable text")
	}
	logger.Debug("Cut %d chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fail(fmt.Sprintf("embedding failed: %v", err))
	}

	if err := p.index.Store(ctx, chunks, vectors); err != nil {
		result := fail(fmt.Sprintf("storing chunks failed: %v", err))
		result.ChunksCreated = len(chunks)
		return result
	}

	stats, err := p.index.DocumentStats(ctx, documentID)
	if err != nil {
		// Chunks are committed; report what we know.
		logger.Warn("Reading back stats for %q failed: %v", documentID, err)
		stats = domain.DocumentStats{ChunkCount: len(chunks), PageCount: len(pages)}
	}

	logger.Info("Ingested %q: %d pages, %d chunks", filename, stats.PageCount, stats.ChunkCount)
	return domain.UploadResult{
		Success:        true,
		Message:        fmt.Sprintf("Successfully processed %q: %d pages, %d chunks", filename, stats.PageCount, stats.ChunkCount),
		DocumentID:     documentID,
		Filename:       filename,
		PagesProcessed: stats.PageCount,
		ChunksCreated:  stats.ChunkCount,
	}
}

// Ask answers a question against the ingested corpus.
func (p *Pipeline) Ask(ctx context.Context, req domain.AskRequest) domain.AnswerResult {
	start := time.Now()

	logger.Section("Question Answering")
	logger.Debug("Question: %q (document filter: %q)", req.Message, req.DocumentID)

	finish := func(result domain.AnswerResult) domain.AnswerResult {
		result.ProcessingTime = time.Since(start).Seconds()
		return result
	}

	if err := req.Validate(); err != nil {
		return finish(domain.AnswerResult{
			Success:  false,
			Response: fmt.Sprintf("Please ask a non-empty question of at most %d characters.", domain.MaxQueryLength),
		})
	}
	req.ApplyDefaults()

	queryVector, err := p.embedder.Embed(ctx, req.Message)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return finish(domain.AnswerResult{
			Success:  false,
			Response: "The embedding service is unavailable; the question could not be processed.",
		})
	}

	opts := driven.SearchOptions{
		DocumentID: req.DocumentID,
		K:          p.settings.RetrievalK,
		Threshold:  p.settings.SimilarityThreshold,
	}
	chunks, err := p.index.Search(ctx, queryVector, opts)
	if err != nil {
		logger.Warn("Similarity search failed: %v", err)
		return finish(domain.AnswerResult{
			Success:  false,
			Response: "Searching the document index failed; please try again.",
		})
	}

	// A document filter that matches nothing widens to the whole corpus
	// exactly once.
	if len(chunks) == 0 && opts.DocumentID != "" {
		logger.Debug("Filtered search empty, widening to all documents")
		opts.DocumentID = ""
		chunks, err = p.index.Search(ctx, queryVector, opts)
		if err != nil {
			logger.Warn("Widened search failed: %v", err)
			return finish(domain.AnswerResult{
				Success:  false,
				Response: "Searching the document index failed; please try again.",
			})
		}
	}

	if len(chunks) == 0 {
		logger.Info("No relevant chunks found")
		return finish(domain.AnswerResult{
			Success:    true,
			Response:   noInfoResponse,
			Sources:    []string{},
			Confidence: 0,
		})
	}
	logger.Debug("Retrieved %d chunks (top similarity %.3f)", len(chunks), chunks[0].Similarity)

	answer := p.generator.Answer(ctx, req.Message, req.History, chunks, req.Temperature, req.MaxTokens)

	return finish(domain.AnswerResult{
		Success:    true,
		Response:   answer,
		Sources:    formatSources(chunks),
		Confidence: calculateConfidence(chunks),
	})
}

// DeleteDocument removes a document and all of its chunks.
func (p *Pipeline) DeleteDocument(ctx context.Context, documentID string) (bool, error) {
	deleted, err := p.index.DeleteDocument(ctx, documentID)
	if err != nil {
		return false, fmt.Errorf("delete document %s: %w", documentID, err)
	}
	if deleted {
		logger.Info("Deleted document %s", documentID)
	}
	return deleted, nil
}

// Status reports index and configuration state.
func (p *Pipeline) Status(ctx context.Context) domain.SystemStatus {
	status := domain.SystemStatus{
		Status:              "healthy",
		EmbeddingModel:      p.embedder.ModelName(),
		GenerationBackends:  p.generator.Backends(),
		ChunkSize:           p.settings.ChunkSize,
		ChunkOverlap:        p.settings.ChunkOverlap,
		RetrievalK:          p.settings.RetrievalK,
		SimilarityThreshold: p.settings.SimilarityThreshold,
	}

	stats, err := p.index.Stats(ctx)
	if err != nil {
		logger.Warn("Index stats unavailable: %v", err)
		status.Status = "error"
		return status
	}
	status.TotalChunks = stats.TotalChunks
	status.TotalDocuments = stats.TotalDocuments
	return status
}

// formatSources renders one citation per retrieved chunk, in rank order.
func formatSources(chunks []domain.RetrievedChunk) []string {
	sources := make([]string, len(chunks))
	for i, chunk := range chunks {
		filename := chunk.Filename()
		if filename == "" {
			filename = "unknown"
		}
		sources[i] = fmt.Sprintf("%s (Page %d, Similarity: %.2f)", filename, chunk.PageNumber(), chunk.Similarity)
	}
	return sources
}

// calculateConfidence scores the answer from the retrieval
// similarities: the mean, boosted by 10% (capped at 1.0) when at least
// three chunks average above 0.8, rounded to two decimals.
func calculateConfidence(chunks []domain.RetrievedChunk) float64 {
	if len(chunks) == 0 {
		return 0
	}

	var sum float64
	for _, chunk := range chunks {
		sum += chunk.Similarity
	}
	avg := sum / float64(len(chunks))

	confidence := avg
	if len(chunks) >= 3 && avg > 0.8 {
		confidence = math.Min(avg*1.1, 1.0)
	}
	return math.Round(confidence*100) / 100
}
