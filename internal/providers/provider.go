package providers

import (
	"context"
	"io"
	"time"
)

// Document source discriminators, matching the Mistral OCR API wire format.
const (
	DocumentTypeURL   = "document_url"
	DocumentTypeImage = "image_url"
)

// Document is a tagged document source: either an addressable URL (remote
// document or signed upload URL) or an inline base64 image data URL.
// Transient; built per request by the ingestor.
type Document struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// DocumentFromURL wraps a direct or signed URL as a document source.
func DocumentFromURL(url string) Document {
	return Document{Type: DocumentTypeURL, DocumentURL: url}
}

// DocumentFromImageDataURL wraps a base64 image data URL as a document source.
func DocumentFromImageDataURL(dataURL string) Document {
	return Document{Type: DocumentTypeImage, ImageURL: dataURL}
}

// OCRPage is one extracted page: ordered index plus markdown text.
// Immutable once returned by the provider.
type OCRPage struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
}

// OCRResult is the response from an OCR provider.
type OCRResult struct {
	Model          string        `json:"model"`
	Pages          []OCRPage     `json:"pages"`
	PagesProcessed int           `json:"pages_processed"`
	DocSizeBytes   int           `json:"doc_size_bytes,omitempty"`
	ExecutionTime  time.Duration `json:"execution_time"`
}

// OCRProvider handles document-to-text extraction.
// Separate from LLM because it has different request shapes and result
// handling (per-page markdown vs a single completion).
type OCRProvider interface {
	// Name returns the provider identifier (e.g., "mistral-ocr").
	Name() string

	// Process extracts ordered page text from a document source.
	Process(ctx context.Context, doc Document) (*OCRResult, error)
}

// Uploader stores a file with the remote service and returns a signed
// retrieval URL for it. Used for PDFs, which the OCR endpoint cannot
// accept inline.
type Uploader interface {
	// Upload stores the file under the OCR purpose and returns its file ID.
	Upload(ctx context.Context, filename string, content io.Reader) (string, error)

	// SignedURL returns a time-limited retrieval URL for an uploaded file.
	SignedURL(ctx context.Context, fileID string) (string, error)
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ChatRequest is a request to an LLM.
type ChatRequest struct {
	Messages []Message `json:"messages"`

	// Model selection (uses client default if empty)
	Model string `json:"model,omitempty"`

	// Generation parameters
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`

	// Request tracking
	RequestID string `json:"-"`
}

// ChatResult is the complete response from an LLM call.
type ChatResult struct {
	Content string `json:"content"`

	// Token counts
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Timing
	ExecutionTime time.Duration `json:"execution_time"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	// Request tracking
	RequestID string `json:"request_id"`
}

// LLMClient is the interface for chat completion requests.
type LLMClient interface {
	// Chat sends a chat completion request.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g., "mistral").
	Name() string
}
