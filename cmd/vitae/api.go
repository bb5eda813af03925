package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/vitae/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running Vitae server via HTTP.

These commands require a running server (vitae serve).
Use --server to specify a custom server URL.

Examples:
  vitae api health                      # Check server health
  vitae api parse-resume resume.pdf     # Parse a resume file
  vitae api ocr --url https://...       # Run OCR on a document URL`,
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8000", "Server URL",
	)

	apiCmd.AddCommand((&endpoints.RootEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.StatusEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ParseResumeEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.OCREndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.SwaggerEndpoint{}).Command(getServerURL))

	rootCmd.AddCommand(apiCmd)
}
