package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackzampolin/vitae/internal/config"
	"github.com/jackzampolin/vitae/internal/pipeline"
	"github.com/jackzampolin/vitae/internal/providers"
	"github.com/jackzampolin/vitae/internal/resume"
	"github.com/jackzampolin/vitae/internal/server/endpoints"
	"github.com/jackzampolin/vitae/internal/testutil"
)

// newTestServer wires a server around mock providers so no network
// calls leave the process.
func newTestServer(t *testing.T) (*Server, *providers.MockOCRProvider, *providers.MockLLMClient) {
	t.Helper()

	configFile := filepath.Join(t.TempDir(), "config.yaml")
	content := `
ocr_providers:
  mock:
    type: "mistral-ocr"
    api_key: "test-key"
    enabled: true
llm_providers:
  mock:
    type: "mistral"
    api_key: "test-key"
    enabled: true
defaults:
  ocr_provider: "mock"
  llm_provider: "mock"
`
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cm, err := config.NewManager(configFile)
	if err != nil {
		t.Fatalf("config manager: %v", err)
	}

	ocr := providers.NewMockOCRProvider()
	llm := providers.NewMockLLMClient()
	registry := providers.NewRegistry()
	registry.RegisterOCR("mock", ocr)
	registry.RegisterLLM("mock", llm)

	srv, err := New(Config{
		Host:          "127.0.0.1",
		Port:          "0",
		ConfigManager: cm,
		Registry:      registry,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv, ocr, llm
}

func stubResumeJSON(t *testing.T) string {
	t.Helper()
	rec := resume.EmptyRecord()
	rec.Basics.Name = "Jane Doe"
	rec.Basics.Email = "jane@example.com"
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshaling stub: %v", err)
	}
	return string(data)
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing form: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestServer_RootDescriptor(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	var root endpoints.RootResponse
	if err := json.NewDecoder(resp.Body).Decode(&root); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if root.Message != "AI Resume Parser API" {
		t.Errorf("message = %q", root.Message)
	}
	if root.Status != "active" {
		t.Errorf("status = %q, want active", root.Status)
	}
	if _, ok := root.Endpoints["parse_resume"]; !ok {
		t.Error("expected parse_resume in endpoint listing")
	}
}

func TestServer_Health(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	var health endpoints.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("status = %q, want healthy", health.Status)
	}
	if health.Timestamp == "" {
		t.Error("timestamp is empty")
	}
	if !health.APIKeyConfigured {
		t.Error("api_key_configured = false, want true with literal key")
	}
}

func TestServer_Status(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/status")
	if err != nil {
		t.Fatalf("GET /status: %v", err)
	}
	defer resp.Body.Close()

	var status endpoints.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if status.Server != "running" {
		t.Errorf("server = %q, want running", status.Server)
	}
	if len(status.Providers.OCR) != 1 || status.Providers.OCR[0] != "mock" {
		t.Errorf("ocr providers = %v, want [mock]", status.Providers.OCR)
	}
	if status.Defaults.OCRProvider != "mock" {
		t.Errorf("default ocr = %q, want mock", status.Defaults.OCRProvider)
	}
}

func TestServer_ParseResume(t *testing.T) {
	srv, ocr, llm := newTestServer(t)
	ocr.Pages = []providers.OCRPage{{Index: 0, Markdown: "page 1 text"}}
	llm.ResponseText = stubResumeJSON(t)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	body, contentType := multipartBody(t, "jane-doe.pdf", testutil.PDFFixture(t))
	resp, err := http.Post(ts.URL+"/parse-resume", contentType, body)
	if err != nil {
		t.Fatalf("POST /parse-resume: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want 200; body: %s", resp.StatusCode, raw)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading response: %v", err)
	}
	var envelope pipeline.ResultEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if envelope.Metadata.TotalPages != 1 {
		t.Errorf("total_pages = %d, want 1", envelope.Metadata.TotalPages)
	}
	if envelope.Metadata.Processor != pipeline.ProcessorResume {
		t.Errorf("processor = %q, want %q", envelope.Metadata.Processor, pipeline.ProcessorResume)
	}
	if envelope.Metadata.Filename != "jane-doe" {
		t.Errorf("filename = %q, want jane-doe", envelope.Metadata.Filename)
	}
	if envelope.Resume.Basics.Name != "Jane Doe" {
		t.Errorf("basics.name = %q, want Jane Doe", envelope.Resume.Basics.Name)
	}

	// The aggregated OCR text rides along under _raw_text so the web UI
	// can offer a plain-text download.
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		t.Fatalf("decoding response keys: %v", err)
	}
	var rawText string
	if err := json.Unmarshal(keys["_raw_text"], &rawText); err != nil {
		t.Fatalf("response has no _raw_text string: %v", err)
	}
	if rawText != "page 1 text" {
		t.Errorf("_raw_text = %q, want %q", rawText, "page 1 text")
	}
}

func TestServer_ParseResume_BadExtension(t *testing.T) {
	srv, ocr, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	body, contentType := multipartBody(t, "resume.docx", []byte("word doc"))
	resp, err := http.Post(ts.URL+"/parse-resume", contentType, body)
	if err != nil {
		t.Fatalf("POST /parse-resume: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	// Rejected input must never reach the OCR service.
	if ocr.ProcessCalls() != 0 {
		t.Errorf("OCR calls = %d, want 0", ocr.ProcessCalls())
	}
	if ocr.UploadCalls() != 0 {
		t.Errorf("upload calls = %d, want 0", ocr.UploadCalls())
	}
}

func TestServer_ParseResume_EmptyFile(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	body, contentType := multipartBody(t, "resume.pdf", nil)
	resp, err := http.Post(ts.URL+"/parse-resume", contentType, body)
	if err != nil {
		t.Fatalf("POST /parse-resume: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestServer_ParseResume_NoContent(t *testing.T) {
	srv, ocr, _ := newTestServer(t)
	ocr.Pages = nil

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	body, contentType := multipartBody(t, "blank.pdf", testutil.PDFFixture(t))
	resp, err := http.Post(ts.URL+"/parse-resume", contentType, body)
	if err != nil {
		t.Fatalf("POST /parse-resume: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	var errResp endpoints.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !strings.Contains(errResp.Error, "no content") {
		t.Errorf("error = %q, want no-content message", errResp.Error)
	}
}

func TestServer_ParseResume_ProviderFailure(t *testing.T) {
	srv, ocr, _ := newTestServer(t)
	ocr.Err = context.DeadlineExceeded

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	body, contentType := multipartBody(t, "resume.pdf", testutil.PDFFixture(t))
	resp, err := http.Post(ts.URL+"/parse-resume", contentType, body)
	if err != nil {
		t.Fatalf("POST /parse-resume: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}

	var errResp endpoints.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !strings.Contains(errResp.Error, "Processing error") {
		t.Errorf("error = %q, want processing error prefix", errResp.Error)
	}
}

func TestServer_OCR_URL(t *testing.T) {
	srv, ocr, llm := newTestServer(t)
	ocr.Pages = []providers.OCRPage{
		{Index: 0, Markdown: "first page"},
		{Index: 1, Markdown: "second page"},
	}

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	body := strings.NewReader(`{"url":"https://example.com/doc.pdf"}`)
	resp, err := http.Post(ts.URL+"/ocr", "application/json", body)
	if err != nil {
		t.Fatalf("POST /ocr: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want 200; body: %s", resp.StatusCode, raw)
	}

	var envelope pipeline.OCREnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if envelope.Metadata.Processor != pipeline.ProcessorOCR {
		t.Errorf("processor = %q, want %q", envelope.Metadata.Processor, pipeline.ProcessorOCR)
	}
	if len(envelope.Content.Pages) != 2 {
		t.Errorf("pages = %d, want 2", len(envelope.Content.Pages))
	}
	// OCR-only flow never calls the chat model.
	if llm.Calls() != 0 {
		t.Errorf("chat calls = %d, want 0", llm.Calls())
	}
}

func TestServer_OCR_MissingURL(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/ocr", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("POST /ocr: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
