// Package extract turns aggregated resume text into the canonical
// structured record via a chat completion request.
package extract

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jackzampolin/vitae/internal/providers"
	"github.com/jackzampolin/vitae/internal/resume"
)

// Generation parameters for the extraction request.
const (
	DefaultTemperature = 0.1
	DefaultMaxTokens   = 4000
)

// Fallback reasons recorded when extraction degrades to the empty record.
const (
	ReasonLLMError         = "llm_error"
	ReasonJSONParse        = "json_parse"
	ReasonSchemaValidation = "schema_validation"
)

// Config holds extractor settings.
type Config struct {
	Model       string  // Uses the client default if empty
	Temperature float64 // Defaults to 0.1
	MaxTokens   int     // Defaults to 4000
}

// Extraction is the result of one extraction attempt. The record is
// always populated: either the parsed model output or the canonical
// empty fallback. Degrade to empty, never raise past the extractor.
type Extraction struct {
	Record resume.Record

	// Fallback is true when the empty record was substituted.
	Fallback bool
	// FailureReason tags why the fallback was used; empty on success.
	FailureReason string

	// Request tracking
	RequestID   string
	TotalTokens int
}

// Extractor sends aggregated text plus the fixed instructional prompt to
// an LLM and parses the response into the canonical record.
type Extractor struct {
	llm         providers.LLMClient
	model       string
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

// New creates an Extractor.
func New(llm providers.LLMClient, cfg Config, logger *slog.Logger) *Extractor {
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		llm:         llm,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      logger,
	}
}

// Extract runs one chat completion over the aggregated text. Call and
// parse failures are recovered locally by substituting the empty record.
func (e *Extractor) Extract(ctx context.Context, text string) Extraction {
	requestID := uuid.New().String()

	result, err := e.llm.Chat(ctx, &providers.ChatRequest{
		Messages:    []providers.Message{{Role: "user", Content: UserPrompt(text)}},
		Model:       e.model,
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
		RequestID:   requestID,
	})
	if err != nil {
		e.logger.Warn("extraction call failed, substituting empty record", "request_id", requestID, "error", err)
		return Extraction{Record: resume.EmptyRecord(), Fallback: true, FailureReason: ReasonLLMError, RequestID: requestID}
	}

	cleaned := StripCodeFences(result.Content)

	var rec resume.Record
	if err := json.Unmarshal([]byte(cleaned), &rec); err != nil {
		e.logger.Warn("extraction output is not valid JSON, substituting empty record", "request_id", requestID, "error", err)
		return Extraction{Record: resume.EmptyRecord(), Fallback: true, FailureReason: ReasonJSONParse, RequestID: requestID, TotalTokens: result.TotalTokens}
	}

	if err := resume.Validate(json.RawMessage(cleaned)); err != nil {
		e.logger.Warn("extraction output does not match schema, substituting empty record", "request_id", requestID, "error", err)
		return Extraction{Record: resume.EmptyRecord(), Fallback: true, FailureReason: ReasonSchemaValidation, RequestID: requestID, TotalTokens: result.TotalTokens}
	}

	rec.Normalize()

	return Extraction{Record: rec, RequestID: requestID, TotalTokens: result.TotalTokens}
}
