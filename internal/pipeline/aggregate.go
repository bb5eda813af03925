package pipeline

import (
	"fmt"
	"strings"

	"github.com/jackzampolin/vitae/internal/providers"
)

// PageSeparator joins per-page text into one document string. Splitting
// the joined text on it recovers the pages in order.
const PageSeparator = "\n\n"

// JoinPages concatenates page text in page order. This is the text sent
// onward to extraction; no page labels are applied.
func JoinPages(pages []providers.OCRPage) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = p.Markdown
	}
	return strings.Join(parts, PageSeparator)
}

// LabeledMarkdown renders pages with bold 1-indexed page labels for
// display. Never fed back into extraction.
func LabeledMarkdown(pages []providers.OCRPage) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprintf("**Page %d**\n%s", i+1, p.Markdown)
	}
	return strings.Join(parts, PageSeparator)
}

// LabeledPlainText renders pages with plain 1-indexed page labels.
func LabeledPlainText(pages []providers.OCRPage) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprintf("Page %d\n%s", i+1, p.Markdown)
	}
	return strings.Join(parts, PageSeparator)
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
