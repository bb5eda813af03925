package config

import (
	"github.com/jackzampolin/vitae/internal/extract"
	"github.com/jackzampolin/vitae/internal/providers"
)

// Config holds vitae configuration.
type Config struct {
	Server       ServerCfg                 `mapstructure:"server" yaml:"server"`
	OCRProviders map[string]OCRProviderCfg `mapstructure:"ocr_providers" yaml:"ocr_providers"`
	LLMProviders map[string]LLMProviderCfg `mapstructure:"llm_providers" yaml:"llm_providers"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults"`
}

// ServerCfg configures the HTTP listener.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// Addr returns the host:port listen address.
func (s ServerCfg) Addr() string {
	return s.Host + ":" + s.Port
}

// OCRProviderCfg configures an OCR provider.
type OCRProviderCfg struct {
	Type          string `mapstructure:"type" yaml:"type"`                       // "mistral-ocr"
	Model         string `mapstructure:"model" yaml:"model"`                     // Model name
	APIKey        string `mapstructure:"api_key" yaml:"api_key"`                 // API key (supports ${ENV_VAR} syntax)
	BaseURL       string `mapstructure:"base_url" yaml:"base_url,omitempty"`     // Override for testing
	IncludeImages bool   `mapstructure:"include_images" yaml:"include_images"`   // Request base64 page images
	Enabled       bool   `mapstructure:"enabled" yaml:"enabled"`
}

// LLMProviderCfg configures an LLM provider.
type LLMProviderCfg struct {
	Type       string `mapstructure:"type" yaml:"type"`                   // "mistral"
	Model      string `mapstructure:"model" yaml:"model"`                 // Model name
	APIKey     string `mapstructure:"api_key" yaml:"api_key"`             // API key (supports ${ENV_VAR} syntax)
	BaseURL    string `mapstructure:"base_url" yaml:"base_url,omitempty"` // Override for testing
	MaxRetries int    `mapstructure:"max_retries" yaml:"max_retries"`
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default provider selections and extraction tuning.
type DefaultsCfg struct {
	OCRProvider string  `mapstructure:"ocr_provider" yaml:"ocr_provider"`
	LLMProvider string  `mapstructure:"llm_provider" yaml:"llm_provider"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "0.0.0.0",
			Port: "8000",
		},
		OCRProviders: map[string]OCRProviderCfg{
			"mistral": {
				Type:          "mistral-ocr",
				Model:         providers.MistralOCRModel,
				APIKey:        "${MISTRAL_API_KEY}",
				IncludeImages: true,
				Enabled:       true,
			},
		},
		LLMProviders: map[string]LLMProviderCfg{
			"mistral": {
				Type:       "mistral",
				Model:      providers.MistralChatModel,
				APIKey:     "${MISTRAL_API_KEY}",
				MaxRetries: 2,
				Enabled:    true,
			},
		},
		Defaults: DefaultsCfg{
			OCRProvider: "mistral",
			LLMProvider: "mistral",
			Temperature: extract.DefaultTemperature,
			MaxTokens:   extract.DefaultMaxTokens,
		},
	}
}

// GetOCRProvider returns an OCR provider config by name.
func (c *Config) GetOCRProvider(name string) (OCRProviderCfg, bool) {
	cfg, ok := c.OCRProviders[name]
	return cfg, ok
}

// GetLLMProvider returns an LLM provider config by name.
func (c *Config) GetLLMProvider(name string) (LLMProviderCfg, bool) {
	cfg, ok := c.LLMProviders[name]
	return cfg, ok
}

// EnabledOCRProviders returns all enabled OCR providers.
func (c *Config) EnabledOCRProviders() map[string]OCRProviderCfg {
	result := make(map[string]OCRProviderCfg)
	for name, cfg := range c.OCRProviders {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}

// EnabledLLMProviders returns all enabled LLM providers.
func (c *Config) EnabledLLMProviders() map[string]LLMProviderCfg {
	result := make(map[string]LLMProviderCfg)
	for name, cfg := range c.LLMProviders {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}

// APIKeyConfigured reports whether the default OCR provider has a
// non-empty API key after env resolution. Surfaced by the health
// endpoint so deployments can catch missing keys early.
func (c *Config) APIKeyConfigured() bool {
	ocr, ok := c.GetOCRProvider(c.Defaults.OCRProvider)
	if !ok {
		return false
	}
	return ResolveEnvVars(ocr.APIKey) != ""
}

// ExtractConfig returns the extraction settings for the default LLM provider.
func (c *Config) ExtractConfig() extract.Config {
	model := ""
	if llm, ok := c.GetLLMProvider(c.Defaults.LLMProvider); ok {
		model = llm.Model
	}
	return extract.Config{
		Model:       model,
		Temperature: c.Defaults.Temperature,
		MaxTokens:   c.Defaults.MaxTokens,
	}
}
