package endpoints

import (
	"github.com/jackzampolin/vitae/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	SwaggerSpecPath string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Meta endpoints
		&RootEndpoint{},
		&HealthEndpoint{},
		&StatusEndpoint{},

		// Processing endpoints
		&ParseResumeEndpoint{},
		&OCREndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{SpecPath: cfg.SwaggerSpecPath},
		&SwaggerUIEndpoint{},

		// Static files (catch-all, must be last)
		&StaticEndpoint{},
	}
}
