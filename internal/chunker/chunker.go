// Package chunker splits extracted document text into overlapping,
// size-bounded passages aligned to sentence boundaries.
package chunker

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// Defaults for the chunking window.
const (
	DefaultChunkSize      = domain.DefaultChunkSize
	DefaultChunkOverlap   = domain.DefaultChunkOverlap
	DefaultMinChunkLength = domain.DefaultMinChunkLength
)

// Chunker splits normalized text into overlapping chunks. It is purely
// deterministic and CPU-bound.
type Chunker struct {
	chunkSize int
	overlap   int
	minLength int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// WithMinChunkLength sets the floor below which chunks are discarded.
func WithMinChunkLength(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.minLength = n
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		minLength: DefaultMinChunkLength,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap at or above half the window would stall the advance.
	if c.overlap >= c.chunkSize/2 {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkSize returns the configured window size.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Normalize collapses whitespace runs to single spaces and strips
// characters outside the safe printable set.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	space := false
	for _, r := range text {
		if unicode.IsSpace(r) || !allowedRune(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}

	return b.String()
}

// allowedRune reports whether r belongs to the safe printable set:
// letters, digits, underscore and common punctuation.
func allowedRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
		return true
	}
	switch r {
	case '-', '.', ',', '!', '?', ';', ':', '(', ')', '[', ']', '{', '}', '"':
		return true
	}
	return false
}

// Split normalizes text and cuts it into overlapping chunks. Chunks
// shorter than the configured floor are discarded. Every returned chunk
// is at most ChunkSize characters.
func (c *Chunker) Split(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}

	runes := []rune(normalized)
	if len(runes) <= c.chunkSize {
		return c.filter([]string{normalized})
	}

	var chunks []string
	start := 0

	for start < len(runes) {
		end := start + c.chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		// Prefer a sentence boundary when one falls past the window
		// midpoint; otherwise cut at the hard limit.
		if cut := lastSentenceEnd(runes[start:end]); cut > c.chunkSize/2 {
			end = start + cut + 1
		}

		chunks = append(chunks, string(runes[start:end]))

		// Advance so the next chunk overlaps the previous cut, never
		// skipping text and never standing still.
		next := end - c.overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return c.filter(chunks)
}

// lastSentenceEnd returns the index of the last sentence terminator in
// the window, or -1.
func lastSentenceEnd(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		switch window[i] {
		case '.', '?', '!':
			return i
		}
	}
	return -1
}

// filter drops chunks whose trimmed length is below the floor.
func (c *Chunker) filter(chunks []string) []string {
	kept := chunks[:0]
	for _, ch := range chunks {
		if len(strings.TrimSpace(ch)) >= c.minLength {
			kept = append(kept, strings.TrimSpace(ch))
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// ChunkPages chunks each page independently, stamping chunks with the
// page number and assigning chunk indices continuously across the whole
// document. Chunk IDs are derived from the document ID and index so
// that chunk order stays meaningful end to end.
func (c *Chunker) ChunkPages(documentID, filename string, pages []domain.Page) []domain.Chunk {
	var chunks []domain.Chunk
	index := 0

	for _, page := range pages {
		for _, content := range c.Split(page.Text) {
			chunks = append(chunks, domain.Chunk{
				ID:         fmt.Sprintf("%s_%d", documentID, index),
				DocumentID: documentID,
				Content:    content,
				PageNumber: page.Number,
				ChunkIndex: index,
				Metadata: map[string]any{
					"filename":     filename,
					"chunk_length": len(content),
					"page_number":  page.Number,
				},
			})
			index++
		}
	}

	return chunks
}
