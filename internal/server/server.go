// Package server runs the Vitae HTTP API: endpoint registration,
// service context enrichment, and graceful lifecycle handling.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jackzampolin/vitae/internal/api"
	"github.com/jackzampolin/vitae/internal/config"
	"github.com/jackzampolin/vitae/internal/pipeline"
	"github.com/jackzampolin/vitae/internal/providers"
	"github.com/jackzampolin/vitae/internal/server/endpoints"
	"github.com/jackzampolin/vitae/internal/svcctx"
)

// Server is the main Vitae HTTP server.
type Server struct {
	httpServer *http.Server
	registry   *providers.Registry
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 0.0.0.0)
	Host string
	// Port is the port to listen on (default: 8000)
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Registry is an optional pre-populated provider registry. When nil,
	// providers are instantiated from the config manager.
	Registry *providers.Registry
	// SwaggerSpecPath overrides the swagger.json location
	SwaggerSpecPath string
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "8000"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ConfigManager == nil {
		return nil, errors.New("config manager is required")
	}

	registry := cfg.Registry
	ownsRegistry := registry == nil
	if ownsRegistry {
		registry = providers.NewRegistry()
		registry.SetLogger(cfg.Logger)
		registry.Reload(cfg.ConfigManager.Get().ToProviderRegistryConfig())
	}

	s := &Server{
		registry:  registry,
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
	}

	if err := s.buildServices(cfg.ConfigManager.Get()); err != nil {
		return nil, err
	}

	// Rebuild providers and pipeline when the config file changes.
	cfg.ConfigManager.OnChange(func(c *config.Config) {
		if ownsRegistry {
			registry.Reload(c.ToProviderRegistryConfig())
		}
		if err := s.buildServices(c); err != nil {
			cfg.Logger.Error("config reload failed", "error", err)
			return
		}
		cfg.Logger.Info("pipeline rebuilt from config")
	})

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{SwaggerSpecPath: cfg.SwaggerSpecPath}) {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:    net.JoinHostPort(cfg.Host, cfg.Port),
		Handler: s.withServices(mux),
		// OCR and extraction calls block the handler; allow slow writes.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// buildServices constructs the pipeline from the current config and
// swaps the services struct used for context enrichment.
func (s *Server) buildServices(cfg *config.Config) error {
	ocr, err := s.registry.GetOCR(cfg.Defaults.OCRProvider)
	if err != nil {
		return fmt.Errorf("default OCR provider: %w", err)
	}
	uploader, err := s.registry.GetUploader(cfg.Defaults.OCRProvider)
	if err != nil {
		return fmt.Errorf("default OCR provider: %w", err)
	}
	llm, err := s.registry.GetLLM(cfg.Defaults.LLMProvider)
	if err != nil {
		return fmt.Errorf("default LLM provider: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		OCR:      ocr,
		Uploader: uploader,
		LLM:      llm,
		Extract:  cfg.ExtractConfig(),
		Logger:   s.logger,
	})

	s.mu.Lock()
	s.services = &svcctx.Services{
		Pipeline:      p,
		Registry:      s.registry,
		ConfigManager: s.configMgr,
		Logger:        s.logger,
	}
	s.mu.Unlock()
	return nil
}

// Start starts the HTTP server. It blocks until the context is
// cancelled or an error occurs, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// Handler returns the fully wired HTTP handler. Exposed for tests that
// drive the mux without a listening socket.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		services := s.services
		s.mu.RUnlock()

		ctx := r.Context()
		if services != nil {
			ctx = svcctx.WithServices(ctx, services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable if the pipeline isn't ready.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		ready := s.services != nil && s.services.Pipeline != nil
		s.mu.RUnlock()

		if !ready {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
