package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/vitae/internal/api"
	"github.com/jackzampolin/vitae/internal/svcctx"
	"github.com/jackzampolin/vitae/version"
)

// RootResponse is the service descriptor returned at the API root.
type RootResponse struct {
	Message     string            `json:"message"`
	Status      string            `json:"status"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Endpoints   map[string]string `json:"endpoints"`
}

// RootEndpoint handles GET / (exact match only).
type RootEndpoint struct{}

var _ api.Endpoint = (*RootEndpoint)(nil)

func (e *RootEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/{$}", e.handler
}

func (e *RootEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary	Service descriptor
//	@Tags		meta
//	@Produce	json
//	@Success	200	{object}	RootResponse
//	@Router		/ [get]
func (e *RootEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Message:     "AI Resume Parser API",
		Status:      "active",
		Version:     version.GitRelease,
		Description: "Upload resume files (PDF/Image) and get structured JSON data",
		Endpoints: map[string]string{
			"parse_resume": "/parse-resume (POST) - Upload resume file and get structured JSON",
			"ocr":          "/ocr (POST) - Upload a document or submit a URL for raw OCR text",
			"health":       "/health (GET) - API health check",
			"status":       "/status (GET) - Registered providers",
		},
	})
}

func (e *RootEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show service descriptor",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp RootResponse
			if err := client.Get(cmd.Context(), "/", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Status           string `json:"status"`
	Timestamp        string `json:"timestamp"`
	APIKeyConfigured bool   `json:"api_key_configured"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

var _ api.Endpoint = (*HealthEndpoint)(nil)

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary	Check API health
//	@Tags		meta
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if cm := svcctx.ConfigManagerFrom(r.Context()); cm != nil {
		resp.APIKeyConfigured = cm.Get().APIKeyConfigured()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status:   %s\n", resp.Status)
			fmt.Printf("API key:  configured=%t\n", resp.APIKeyConfigured)
			return nil
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server    string          `json:"server"`
	Providers ProvidersStatus `json:"providers"`
	Defaults  DefaultsStatus  `json:"defaults"`
}

// ProvidersStatus shows registered OCR and LLM providers.
type ProvidersStatus struct {
	OCR []string `json:"ocr"`
	LLM []string `json:"llm"`
}

// DefaultsStatus shows the active provider selections.
type DefaultsStatus struct {
	OCRProvider string `json:"ocr_provider"`
	LLMProvider string `json:"llm_provider"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct{}

var _ api.Endpoint = (*StatusEndpoint)(nil)

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary	Get detailed server status
//	@Tags		meta
//	@Produce	json
//	@Success	200	{object}	StatusResponse
//	@Router		/status [get]
func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{Server: "running"}

	if registry := svcctx.RegistryFrom(r.Context()); registry != nil {
		resp.Providers.OCR = registry.ListOCR()
		resp.Providers.LLM = registry.ListLLM()
	}
	if cm := svcctx.ConfigManagerFrom(r.Context()); cm != nil {
		cfg := cm.Get()
		resp.Defaults.OCRProvider = cfg.Defaults.OCRProvider
		resp.Defaults.LLMProvider = cfg.Defaults.LLMProvider
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			fmt.Printf("Server: %s\n", resp.Server)
			fmt.Printf("Providers:\n")
			fmt.Printf("  OCR: %v\n", resp.Providers.OCR)
			fmt.Printf("  LLM: %v\n", resp.Providers.LLM)
			fmt.Printf("Defaults:\n")
			fmt.Printf("  OCR: %s\n", resp.Defaults.OCRProvider)
			fmt.Printf("  LLM: %s\n", resp.Defaults.LLMProvider)
			return nil
		},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
