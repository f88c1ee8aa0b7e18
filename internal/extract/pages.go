package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// pageMarker matches explicit page delimiters of the form
// "--- Page N ---" on their own line.
var pageMarker = regexp.MustCompile(`(?m)^--- Page (\d+) ---[ \t]*$`)

// SplitPages parses text into ordered pages using explicit page
// markers. Text before the first marker belongs to page 1; text
// without any markers is a single page numbered 1. Pages with no
// content after trimming are dropped.
func SplitPages(text string) []domain.Page {
	matches := pageMarker.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		body := strings.TrimSpace(text)
		if body == "" {
			return nil
		}
		return []domain.Page{{Number: 1, Text: body}}
	}

	var pages []domain.Page

	// Preamble before the first marker.
	if lead := strings.TrimSpace(text[:matches[0][0]]); lead != "" {
		pages = append(pages, domain.Page{Number: 1, Text: lead})
	}

	for i, m := range matches {
		number, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil || number < 1 {
			continue
		}

		start := m[1]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		body := strings.TrimSpace(text[start:end])
		if body == "" {
			continue
		}
		pages = append(pages, domain.Page{Number: number, Text: body})
	}

	return pages
}
