// Package pipeline orchestrates the synchronous processing chain:
// ingest, OCR, aggregation, extraction, envelope composition. One
// blocking call chain per request; no state is held across requests.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackzampolin/vitae/internal/extract"
	"github.com/jackzampolin/vitae/internal/ingest"
	"github.com/jackzampolin/vitae/internal/providers"
)

// ErrNoContent reports that OCR returned no usable pages. Callers map
// this to a user-facing warning rather than a hard failure.
var ErrNoContent = errors.New("no content could be extracted from the document")

// Config wires the pipeline's collaborators. Clients are constructed
// once per process and passed in; the pipeline never reaches for
// ambient state.
type Config struct {
	OCR      providers.OCRProvider
	Uploader providers.Uploader
	LLM      providers.LLMClient
	Extract  extract.Config
	Logger   *slog.Logger
}

// Pipeline runs the full document-to-record flow.
type Pipeline struct {
	ingestor  *ingest.Ingestor
	ocr       providers.OCRProvider
	extractor *extract.Extractor
	logger    *slog.Logger
}

// New creates a Pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Pipeline{
		ingestor:  ingest.New(cfg.Uploader, cfg.Logger),
		ocr:       cfg.OCR,
		extractor: extract.New(cfg.LLM, cfg.Extract, cfg.Logger),
		logger:    cfg.Logger,
	}
}

// Result pairs the canonical envelope with extraction bookkeeping that
// callers may log or display but never serialize into the envelope.
type Result struct {
	Envelope   ResultEnvelope
	Extraction extract.Extraction
}

// ParseURL runs the resume flow on a direct document URL.
func (p *Pipeline) ParseURL(ctx context.Context, url string) (*Result, error) {
	prepared, err := p.ingestor.FromURL(url)
	if err != nil {
		return nil, err
	}
	return p.parse(ctx, prepared)
}

// ParseFile runs the resume flow on an uploaded file.
func (p *Pipeline) ParseFile(ctx context.Context, filename string, content []byte) (*Result, error) {
	prepared, err := p.ingestor.FromFile(ctx, filename, content)
	if err != nil {
		return nil, err
	}
	return p.parse(ctx, prepared)
}

func (p *Pipeline) parse(ctx context.Context, prepared *ingest.Prepared) (*Result, error) {
	pages, err := p.runOCR(ctx, prepared)
	if err != nil {
		return nil, err
	}

	text := JoinPages(pages)

	p.logger.Info("extracting structured resume data", "pages", len(pages), "chars", len(text))
	extraction := p.extractor.Extract(ctx, text)

	return &Result{
		Envelope: ResultEnvelope{
			Metadata: newMetadata(prepared.InputType, prepared.Filename, len(pages), ProcessorResume),
			Resume:   extraction.Record,
			RawText:  text,
		},
		Extraction: extraction,
	}, nil
}

// OCRURL runs the generic OCR-only flow on a direct document URL.
func (p *Pipeline) OCRURL(ctx context.Context, url string) (*OCREnvelope, error) {
	prepared, err := p.ingestor.FromURL(url)
	if err != nil {
		return nil, err
	}
	return p.ocrOnly(ctx, prepared)
}

// OCRFile runs the generic OCR-only flow on an uploaded file.
func (p *Pipeline) OCRFile(ctx context.Context, filename string, content []byte) (*OCREnvelope, error) {
	prepared, err := p.ingestor.FromFile(ctx, filename, content)
	if err != nil {
		return nil, err
	}
	return p.ocrOnly(ctx, prepared)
}

func (p *Pipeline) ocrOnly(ctx context.Context, prepared *ingest.Prepared) (*OCREnvelope, error) {
	pages, err := p.runOCR(ctx, prepared)
	if err != nil {
		return nil, err
	}

	return &OCREnvelope{
		Metadata: newMetadata(prepared.InputType, prepared.Filename, len(pages), ProcessorOCR),
		Content:  ocrContent(pages),
	}, nil
}

// runOCR issues the single OCR call and applies the empty-result policy.
func (p *Pipeline) runOCR(ctx context.Context, prepared *ingest.Prepared) ([]providers.OCRPage, error) {
	p.logger.Info("extracting text from document", "input_type", prepared.InputType)

	result, err := p.ocr.Process(ctx, prepared.Document)
	if err != nil {
		return nil, fmt.Errorf("OCR processing failed: %w", err)
	}
	if len(result.Pages) == 0 {
		return nil, ErrNoContent
	}
	return result.Pages, nil
}
