package providers

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

const (
	MockOCRName = "mock-ocr"
	MockLLMName = "mock"
)

// MockOCRProvider is an OCRProvider for testing. Call counts are tracked
// so tests can assert that rejected inputs never reach the OCR call.
type MockOCRProvider struct {
	// Configurable behavior
	Pages      []OCRPage
	Err        error
	UploadErr  error
	SignedErr  error
	FileID     string
	URL        string
	Latency    time.Duration

	// State
	processCount atomic.Int64
	uploadCount  atomic.Int64
}

// NewMockOCRProvider creates a mock OCR provider returning one page.
func NewMockOCRProvider() *MockOCRProvider {
	return &MockOCRProvider{
		Pages:  []OCRPage{{Index: 0, Markdown: "mock page text"}},
		FileID: "file-mock",
		URL:    "https://example.com/signed/file-mock",
	}
}

// Name returns the provider identifier.
func (m *MockOCRProvider) Name() string { return MockOCRName }

// Process returns the configured pages or error.
func (m *MockOCRProvider) Process(ctx context.Context, doc Document) (*OCRResult, error) {
	m.processCount.Add(1)
	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &OCRResult{
		Model:          "mock-ocr-model",
		Pages:          m.Pages,
		PagesProcessed: len(m.Pages),
	}, nil
}

// Upload returns the configured file ID or error.
func (m *MockOCRProvider) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	m.uploadCount.Add(1)
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	// Drain the reader the way a real upload would.
	if _, err := io.Copy(io.Discard, content); err != nil {
		return "", err
	}
	return m.FileID, nil
}

// SignedURL returns the configured URL or error.
func (m *MockOCRProvider) SignedURL(ctx context.Context, fileID string) (string, error) {
	if m.SignedErr != nil {
		return "", m.SignedErr
	}
	return m.URL, nil
}

// ProcessCalls returns how many times Process was invoked.
func (m *MockOCRProvider) ProcessCalls() int {
	return int(m.processCount.Load())
}

// UploadCalls returns how many times Upload was invoked.
func (m *MockOCRProvider) UploadCalls() int {
	return int(m.uploadCount.Load())
}

// Verify interfaces
var (
	_ OCRProvider = (*MockOCRProvider)(nil)
	_ Uploader    = (*MockOCRProvider)(nil)
)

// MockLLMClient is an LLMClient for testing.
type MockLLMClient struct {
	// Configurable behavior
	ResponseText string
	Err          error
	Latency      time.Duration

	// State
	requestCount atomic.Int64
	lastRequest  atomic.Pointer[ChatRequest]
}

// NewMockLLMClient creates a new mock client with a plain text response.
func NewMockLLMClient() *MockLLMClient {
	return &MockLLMClient{ResponseText: "mock response"}
}

// Name returns the client identifier.
func (m *MockLLMClient) Name() string { return MockLLMName }

// Chat returns the configured response or error.
func (m *MockLLMClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	count := m.requestCount.Add(1)
	m.lastRequest.Store(req)

	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}

	promptTokens := 0
	for _, msg := range req.Messages {
		promptTokens += len(msg.Content) / 4 // Rough estimate
	}
	completionTokens := len(m.ResponseText) / 4

	return &ChatResult{
		Content:          m.ResponseText,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		Provider:         MockLLMName,
		ModelUsed:        req.Model,
		RequestID:        fmt.Sprintf("mock-%d", count),
	}, nil
}

// Calls returns how many times Chat was invoked.
func (m *MockLLMClient) Calls() int {
	return int(m.requestCount.Load())
}

// LastRequest returns the most recent request, or nil.
func (m *MockLLMClient) LastRequest() *ChatRequest {
	return m.lastRequest.Load()
}

// Verify interface
var _ LLMClient = (*MockLLMClient)(nil)
