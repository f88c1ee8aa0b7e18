package driven

import (
	"context"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// TextExtractor converts raw file bytes into pages of plain text.
// Extraction failures surface as errors, never as a silently empty
// document.
type TextExtractor interface {
	// Extract parses file bytes into ordered pages. Single-page formats
	// return one page numbered 1.
	Extract(ctx context.Context, data []byte, filename string) ([]domain.Page, error)

	// SupportedExtensions lists the lowercase file extensions this
	// extractor handles, including the leading dot.
	SupportedExtensions() []string
}
