package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	MistralOCRName    = "mistral-ocr"
	MistralBaseURL    = "https://api.mistral.ai/v1"
	MistralOCRModel   = "mistral-ocr-latest"
	mistralOCRTimeout = 120 * time.Second
)

// MistralOCRConfig holds configuration for the Mistral OCR client.
type MistralOCRConfig struct {
	APIKey        string
	BaseURL       string
	Model         string
	Timeout       time.Duration
	IncludeImages bool // Whether to include base64 image data in response
}

// MistralOCRClient implements OCRProvider and Uploader against the
// Mistral API. One instance is constructed per process and passed into
// the components that need it.
type MistralOCRClient struct {
	apiKey        string
	baseURL       string
	model         string
	includeImages bool
	client        *http.Client
}

// NewMistralOCRClient creates a new Mistral OCR client.
func NewMistralOCRClient(cfg MistralOCRConfig) *MistralOCRClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = MistralBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = MistralOCRModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = mistralOCRTimeout
	}

	return &MistralOCRClient{
		apiKey:        cfg.APIKey,
		baseURL:       cfg.BaseURL,
		model:         cfg.Model,
		includeImages: cfg.IncludeImages,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Name returns the provider identifier.
func (c *MistralOCRClient) Name() string {
	return MistralOCRName
}

// Process extracts text from a document source using Mistral OCR.
// The call is made once; errors propagate to the caller with no retry.
func (c *MistralOCRClient) Process(ctx context.Context, doc Document) (*OCRResult, error) {
	start := time.Now()

	reqBody := mistralOCRRequest{
		Model:              c.model,
		Document:           mistralDocumentFrom(doc),
		IncludeImageBase64: c.includeImages,
	}

	resp, err := c.doOCRRequest(ctx, "/ocr", reqBody)
	if err != nil {
		return nil, err
	}

	pages := make([]OCRPage, len(resp.Pages))
	for i, p := range resp.Pages {
		pages[i] = OCRPage{Index: p.Index, Markdown: p.Markdown}
	}

	result := &OCRResult{
		Model:         resp.Model,
		Pages:         pages,
		ExecutionTime: time.Since(start),
	}
	if resp.UsageInfo != nil {
		result.PagesProcessed = resp.UsageInfo.PagesProcessed
		result.DocSizeBytes = resp.UsageInfo.DocSizeBytes
	}
	return result, nil
}

// doOCRRequest makes an HTTP request to the Mistral OCR endpoint.
func (c *MistralOCRClient) doOCRRequest(ctx context.Context, path string, body any) (*mistralOCRResponse, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, mistralAPIError("Mistral OCR", resp.StatusCode, respBody)
	}

	var ocrResp mistralOCRResponse
	if err := json.Unmarshal(respBody, &ocrResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &ocrResp, nil
}

// mistralAPIError extracts an error message from a non-200 response body.
func mistralAPIError(label string, status int, body []byte) error {
	var errResp mistralErrorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		return fmt.Errorf("%s error (status %d): %s", label, status, errResp.Error.Message)
	}
	return fmt.Errorf("%s error (status %d): %s", label, status, string(body))
}

// Mistral OCR API types

type mistralOCRRequest struct {
	Model              string          `json:"model"`
	Document           mistralDocument `json:"document"`
	IncludeImageBase64 bool            `json:"include_image_base64,omitempty"`
}

type mistralDocument struct {
	Type        string           `json:"type"` // "image_url" or "document_url"
	ImageURL    *mistralImageURL `json:"image_url,omitempty"`
	DocumentURL string           `json:"document_url,omitempty"`
}

func mistralDocumentFrom(doc Document) mistralDocument {
	if doc.Type == DocumentTypeImage {
		return mistralDocument{
			Type:     DocumentTypeImage,
			ImageURL: &mistralImageURL{URL: doc.ImageURL},
		}
	}
	return mistralDocument{
		Type:        DocumentTypeURL,
		DocumentURL: doc.DocumentURL,
	}
}

type mistralImageURL struct {
	URL string `json:"url"`
}

type mistralOCRResponse struct {
	Model     string            `json:"model"`
	Pages     []mistralOCRPage  `json:"pages"`
	UsageInfo *mistralUsageInfo `json:"usage_info,omitempty"`
}

type mistralOCRPage struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
}

type mistralUsageInfo struct {
	PagesProcessed int `json:"pages_processed"`
	DocSizeBytes   int `json:"doc_size_bytes,omitempty"`
}

type mistralErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Verify interfaces
var (
	_ OCRProvider = (*MistralOCRClient)(nil)
	_ Uploader    = (*MistralOCRClient)(nil)
)
