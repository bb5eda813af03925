package pipeline

import (
	"time"

	"github.com/jackzampolin/vitae/internal/providers"
	"github.com/jackzampolin/vitae/internal/resume"
)

// Processor labels recorded in envelope metadata.
const (
	ProcessorResume = "Mistral AI Resume Parser"
	ProcessorOCR    = "Mistral OCR API"
)

// Metadata describes one processing run. Created per request; never
// persisted server-side.
type Metadata struct {
	ExtractionTimestamp string `json:"extraction_timestamp"`
	InputType           string `json:"input_type"`
	Filename            string `json:"filename,omitempty"`
	TotalPages          int    `json:"total_pages"`
	Processor           string `json:"processor"`
}

// ResultEnvelope is the canonical resume-parsing response: metadata plus
// one record. RawText carries the aggregated OCR text under an
// underscore-prefixed key so clients can offer a plain-text download
// without mistaking it for a resume section.
type ResultEnvelope struct {
	Metadata Metadata      `json:"metadata"`
	Resume   resume.Record `json:"resume"`
	RawText  string        `json:"_raw_text,omitempty"`
}

// PageContent is one page in the generic OCR response, with display stats.
type PageContent struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
	WordCount  int    `json:"word_count"`
}

// OCRContent holds the aggregated text and per-page breakdown.
type OCRContent struct {
	FullText string        `json:"full_text"`
	Pages    []PageContent `json:"pages"`
}

// OCREnvelope is the generic OCR-only response.
type OCREnvelope struct {
	Metadata Metadata   `json:"metadata"`
	Content  OCRContent `json:"content"`
}

// TotalWords sums per-page word counts. Display-only.
func (e *OCREnvelope) TotalWords() int {
	total := 0
	for _, p := range e.Content.Pages {
		total += p.WordCount
	}
	return total
}

func newMetadata(inputType, filename string, totalPages int, processor string) Metadata {
	return Metadata{
		ExtractionTimestamp: time.Now().Format(time.RFC3339),
		InputType:           inputType,
		Filename:            filename,
		TotalPages:          totalPages,
		Processor:           processor,
	}
}

func ocrContent(pages []providers.OCRPage) OCRContent {
	content := OCRContent{
		FullText: LabeledPlainText(pages),
		Pages:    make([]PageContent, len(pages)),
	}
	for i, p := range pages {
		content.Pages[i] = PageContent{
			PageNumber: i + 1,
			Text:       p.Markdown,
			WordCount:  WordCount(p.Markdown),
		}
	}
	return content
}
