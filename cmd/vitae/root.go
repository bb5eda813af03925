package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/vitae/internal/api"
	"github.com/jackzampolin/vitae/version"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "vitae",
	Short: "Resume parsing service backed by Mistral OCR and chat models",
	Long: `Vitae turns resume documents (PDF, image, or URL) into structured JSON.

The flow:
  - OCR via the Mistral OCR API (per-page markdown)
  - Structured extraction via a Mistral chat model
  - A fixed resume schema where every field is present, populated or empty

Run the HTTP API with "vitae serve", or parse a document locally with
"vitae parse".`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.vitae/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "json", "output format: json or yaml",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
