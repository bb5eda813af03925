package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %q, want /health", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	var result struct {
		Status string `json:"status"`
	}
	client := NewClient(srv.URL)
	if err := client.Get(context.Background(), "/health", &result); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if result.Status != "healthy" {
		t.Errorf("status = %q, want healthy", result.Status)
	}
}

func TestClient_Get_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"unsupported file type"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.Get(context.Background(), "/anything", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "server error (400)") {
		t.Errorf("error = %q, want status code", err)
	}
	if !strings.Contains(err.Error(), "unsupported file type") {
		t.Errorf("error = %q, want server message", err)
	}
}

func TestClient_PostFile(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "resume.pdf")
	if err := os.WriteFile(filePath, []byte("pdf bytes"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("reading form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "resume.pdf" {
			t.Errorf("filename = %q, want resume.pdf", header.Filename)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var result struct {
		OK bool `json:"ok"`
	}
	client := NewClient(srv.URL)
	if err := client.PostFile(context.Background(), "/parse-resume", filePath, &result); err != nil {
		t.Fatalf("PostFile() error: %v", err)
	}
	if !result.OK {
		t.Error("expected ok response")
	}
}

func TestClient_PostFile_MissingFile(t *testing.T) {
	client := NewClient("http://localhost:1")
	err := client.PostFile(context.Background(), "/parse-resume", "/does/not/exist.pdf", nil)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
