package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackzampolin/vitae/internal/config"
	"github.com/jackzampolin/vitae/internal/providers"
	"github.com/jackzampolin/vitae/internal/testutil"
)

func TestServer_Lifecycle(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	content := `
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

	registry := providers.NewRegistry()
	registry.RegisterOCR("mock", providers.NewMockOCRProvider())
	registry.RegisterLLM("mock", providers.NewMockLLMClient())

	port, err := testutil.FindFreePort()
	if err != nil {
		t.Fatalf("finding free port: %v", err)
	}

	srv, err := New(Config{
		Host:          "127.0.0.1",
		Port:          port,
		ConfigManager: cm,
		Registry:      registry,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	baseURL := "http://127.0.0.1:" + port
	if err := testutil.WaitForServer(context.Background(), baseURL, 10*time.Second); err != nil {
		cancel()
		t.Fatalf("server did not become ready: %v", err)
	}

	if !srv.IsRunning() {
		t.Error("IsRunning() = false, want true")
	}

	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200", resp.StatusCode)
	}

	cancel()
	if err := testutil.WaitForShutdown(done, 10*time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}
}

func TestServer_StartTwice(t *testing.T) {
	srv, _, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	// Wait until the first Start marks the server running.
	deadline := time.Now().Add(2 * time.Second)
	for !srv.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if err := srv.Start(ctx); err == nil {
		t.Error("second Start() did not error")
	}

	cancel()
	if err := testutil.WaitForShutdown(done, 10*time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
