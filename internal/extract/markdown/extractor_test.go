package markdown

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

func TestSupportedExtensions(t *testing.T) {
	exts := New().SupportedExtensions()
	assert.Contains(t, exts, ".md")
	assert.Contains(t, exts, ".markdown")
}

func TestExtract_StripsFormatting(t *testing.T) {
	content := "# Project Notes\n\n" +
		"This is **bold** and *italic* text with `inline code`.\n\n" +
		"```go\nfunc ignored() {}\n```\n\n" +
		"- first item\n" +
		"- second item\n\n" +
		"> a quoted line\n\n" +
		"See [the docs](https://example.com) for details.\n"

	pages, err := New().Extract(context.Background(), []byte(content), "notes.md")
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].Number)

	text := pages[0].Text
	assert.Contains(t, text, "Project Notes")
	assert.Contains(t, text, "bold and italic text")
	assert.Contains(t, text, "first item")
	assert.Contains(t, text, "a quoted line")
	assert.Contains(t, text, "See the docs for details.")
	assert.NotContains(t, text, "func ignored")
	assert.NotContains(t, text, "**")
	assert.NotContains(t, text, "](")
	assert.NotContains(t, text, "inline code")
}

func TestExtract_PageMarkers(t *testing.T) {
	content := "--- Page 1 ---\n\n# First\n\nBody one.\n\n--- Page 2 ---\n\n# Second\n\nBody two.\n"

	pages, err := New().Extract(context.Background(), []byte(content), "doc.md")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "First\n\nBody one.", pages[0].Text)
	assert.Equal(t, 2, pages[1].Number)
}

func TestExtract_OnlyFormatting(t *testing.T) {
	// Nothing but a code block leaves no prose.
	_, err := New().Extract(context.Background(), []byte("```\nx := 1\n```\n"), "code.md")
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestExtract_Empty(t *testing.T) {
	_, err := New().Extract(context.Background(), nil, "empty.md")
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestExtract_InvalidUTF8(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte{0xff, 0xfe, 0x00}, "bad.md")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExtractionFailed))
}
