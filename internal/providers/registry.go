package providers

import (
	"fmt"
	"log/slog"
	"sync"
)

// Registry holds references to LLM clients and OCR providers.
// It supports config-driven instantiation, hot-reload, and thread-safe access.
type Registry struct {
	mu           sync.RWMutex
	llmClients   map[string]LLMClient
	ocrProviders map[string]OCRProvider
	logger       *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		llmClients:   make(map[string]LLMClient),
		ocrProviders: make(map[string]OCRProvider),
		logger:       slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// RegisterLLM registers an LLM client by name.
func (r *Registry) RegisterLLM(name string, client LLMClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.llmClients[name] = client
	if r.logger != nil {
		r.logger.Info("registered LLM client", "name", name)
	}
}

// RegisterOCR registers an OCR provider by name.
func (r *Registry) RegisterOCR(name string, provider OCRProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ocrProviders[name] = provider
	if r.logger != nil {
		r.logger.Info("registered OCR provider", "name", name)
	}
}

// GetLLM returns an LLM client by name.
func (r *Registry) GetLLM(name string) (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.llmClients[name]
	if !ok {
		return nil, fmt.Errorf("LLM client not found: %s", name)
	}
	return client, nil
}

// GetOCR returns an OCR provider by name.
func (r *Registry) GetOCR(name string) (OCRProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.ocrProviders[name]
	if !ok {
		return nil, fmt.Errorf("OCR provider not found: %s", name)
	}
	return provider, nil
}

// GetUploader returns an OCR provider that can also store files for
// signed-URL retrieval.
func (r *Registry) GetUploader(name string) (Uploader, error) {
	provider, err := r.GetOCR(name)
	if err != nil {
		return nil, err
	}
	uploader, ok := provider.(Uploader)
	if !ok {
		return nil, fmt.Errorf("OCR provider %s does not support file upload", name)
	}
	return uploader, nil
}

// ListLLM returns all registered LLM client names.
func (r *Registry) ListLLM() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.llmClients))
	for name := range r.llmClients {
		names = append(names, name)
	}
	return names
}

// ListOCR returns all registered OCR provider names.
func (r *Registry) ListOCR() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ocrProviders))
	for name := range r.ocrProviders {
		names = append(names, name)
	}
	return names
}

// HasLLM checks if an LLM client is registered.
func (r *Registry) HasLLM(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.llmClients[name]
	return ok
}

// HasOCR checks if an OCR provider is registered.
func (r *Registry) HasOCR(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ocrProviders[name]
	return ok
}

// RegistryConfig defines the providers to instantiate from config.
type RegistryConfig struct {
	OCRProviders map[string]OCRProviderConfig
	LLMProviders map[string]LLMProviderConfig
}

// OCRProviderConfig configures one OCR provider instance.
type OCRProviderConfig struct {
	Type          string // "mistral-ocr"
	Model         string
	APIKey        string
	BaseURL       string
	IncludeImages bool
	Enabled       bool
}

// LLMProviderConfig configures one LLM client instance.
type LLMProviderConfig struct {
	Type       string // "mistral"
	Model      string
	APIKey     string
	BaseURL    string
	MaxRetries int
	Enabled    bool
}

// Reload replaces all providers with ones built from the given config.
// Unknown or disabled entries are skipped with a log line.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ocrProviders = make(map[string]OCRProvider)
	r.llmClients = make(map[string]LLMClient)

	for name, pc := range cfg.OCRProviders {
		if !pc.Enabled {
			continue
		}
		switch pc.Type {
		case "mistral-ocr":
			r.ocrProviders[name] = NewMistralOCRClient(MistralOCRConfig{
				APIKey:        pc.APIKey,
				BaseURL:       pc.BaseURL,
				Model:         pc.Model,
				IncludeImages: pc.IncludeImages,
			})
			r.logger.Info("registered OCR provider", "name", name, "type", pc.Type)
		default:
			r.logger.Warn("unknown OCR provider type", "name", name, "type", pc.Type)
		}
	}

	for name, pc := range cfg.LLMProviders {
		if !pc.Enabled {
			continue
		}
		switch pc.Type {
		case "mistral":
			r.llmClients[name] = NewMistralChatClient(MistralChatConfig{
				APIKey:     pc.APIKey,
				Model:      pc.Model,
				BaseURL:    pc.BaseURL,
				MaxRetries: pc.MaxRetries,
			})
			r.logger.Info("registered LLM client", "name", name, "type", pc.Type)
		default:
			r.logger.Warn("unknown LLM provider type", "name", name, "type", pc.Type)
		}
	}
}
