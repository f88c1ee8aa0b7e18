// Package plaintext extracts text from plain text and markdown files.
package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
	"github.com/docsage-labs/docsage-cli/internal/extract"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".txt", ".text"}
}

// Extract decodes the file bytes as UTF-8 text and splits them into
// pages on explicit page markers.
func (e *Extractor) Extract(_ context.Context, data []byte, filename string) ([]domain.Page, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, domain.ErrEmptyDocument)
	}

	// Tolerate a UTF-8 BOM, reject binary content.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(data) || bytes.ContainsRune(data, 0) {
		return nil, fmt.Errorf("%s: not valid text: %w", filename, domain.ErrExtractionFailed)
	}

	pages := extract.SplitPages(string(data))
	if len(pages) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, domain.ErrEmptyDocument)
	}
	return pages, nil
}
