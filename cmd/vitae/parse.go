package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/vitae/internal/config"
	"github.com/jackzampolin/vitae/internal/pipeline"
	"github.com/jackzampolin/vitae/internal/providers"
)

var (
	parseURL     string
	parseOCROnly bool
	parseOutDir  string
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a document locally (no server required)",
	Long: `Parse a resume document directly against the Mistral API.

Accepts a local file (.pdf, .png, .jpg, .jpeg) or a document URL.
Writes the result envelope plus the raw extracted text next to the
input (or into --out). With --ocr-only, skips resume extraction and
writes plain-text, markdown, and JSON renderings of the OCR output.

Examples:
  vitae parse resume.pdf
  vitae parse --url https://example.com/resume.pdf
  vitae parse scan.png --ocr-only --out ./artifacts`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && parseURL == "" {
			return errors.New("provide a file argument or --url")
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()
		if !cfg.APIKeyConfigured() {
			return errors.New("MISTRAL_API_KEY is not configured; set the environment variable or edit the config file")
		}

		registry := providers.NewRegistry()
		registry.SetLogger(logger)
		registry.Reload(cfg.ToProviderRegistryConfig())

		ocr, err := registry.GetOCR(cfg.Defaults.OCRProvider)
		if err != nil {
			return err
		}
		uploader, err := registry.GetUploader(cfg.Defaults.OCRProvider)
		if err != nil {
			return err
		}
		llm, err := registry.GetLLM(cfg.Defaults.LLMProvider)
		if err != nil {
			return err
		}

		p := pipeline.New(pipeline.Config{
			OCR:      ocr,
			Uploader: uploader,
			LLM:      llm,
			Extract:  cfg.ExtractConfig(),
			Logger:   logger,
		})

		baseName := "document"
		if len(args) == 1 {
			baseName = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}

		if parseOCROnly {
			return runOCROnly(cmd, p, args, baseName)
		}
		return runParse(cmd, p, args, baseName)
	},
}

func runParse(cmd *cobra.Command, p *pipeline.Pipeline, args []string, baseName string) error {
	ctx := cmd.Context()

	var (
		result *pipeline.Result
		err    error
	)
	if parseURL != "" {
		result, err = p.ParseURL(ctx, parseURL)
	} else {
		content, readErr := os.ReadFile(args[0])
		if readErr != nil {
			return readErr
		}
		result, err = p.ParseFile(ctx, filepath.Base(args[0]), content)
	}
	if err != nil {
		return err
	}

	record := result.Envelope
	record.RawText = "" // text gets its own artifact
	envelope, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	jsonPath, err := writeArtifact(baseName+"_resume.json", envelope)
	if err != nil {
		return err
	}
	textPath, err := writeArtifact(baseName+"_text.txt", []byte(result.Envelope.RawText))
	if err != nil {
		return err
	}

	if result.Extraction.Fallback {
		fmt.Printf("Warning: extraction fell back to the empty schema (%s)\n", result.Extraction.FailureReason)
	}

	fmt.Printf("Parsed %d page(s)\n", result.Envelope.Metadata.TotalPages)
	printSectionCounts(result.Envelope.Resume.SectionCounts())
	fmt.Printf("Wrote %s\n", jsonPath)
	fmt.Printf("Wrote %s\n", textPath)
	return nil
}

func runOCROnly(cmd *cobra.Command, p *pipeline.Pipeline, args []string, baseName string) error {
	ctx := cmd.Context()

	var (
		envelope *pipeline.OCREnvelope
		err      error
	)
	if parseURL != "" {
		envelope, err = p.OCRURL(ctx, parseURL)
	} else {
		content, readErr := os.ReadFile(args[0])
		if readErr != nil {
			return readErr
		}
		envelope, err = p.OCRFile(ctx, filepath.Base(args[0]), content)
	}
	if err != nil {
		return err
	}

	pages := make([]providers.OCRPage, len(envelope.Content.Pages))
	for i, pg := range envelope.Content.Pages {
		pages[i] = providers.OCRPage{Index: pg.PageNumber - 1, Markdown: pg.Text}
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return err
	}

	written := make([]string, 0, 3)
	for _, artifact := range []struct {
		name    string
		content []byte
	}{
		{baseName + "_ocr.txt", []byte(envelope.Content.FullText)},
		{baseName + "_ocr.md", []byte(pipeline.LabeledMarkdown(pages))},
		{baseName + "_ocr.json", data},
	} {
		path, err := writeArtifact(artifact.name, artifact.content)
		if err != nil {
			return err
		}
		written = append(written, path)
	}

	fmt.Printf("Extracted %d page(s), %d words\n", envelope.Metadata.TotalPages, envelope.TotalWords())
	for _, path := range written {
		fmt.Printf("Wrote %s\n", path)
	}
	return nil
}

func writeArtifact(name string, content []byte) (string, error) {
	dir := parseOutDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func printSectionCounts(counts map[string]int) {
	sections := make([]string, 0, len(counts))
	for name := range counts {
		sections = append(sections, name)
	}
	sort.Strings(sections)

	fmt.Println("Sections:")
	for _, name := range sections {
		fmt.Printf("  %-13s %d\n", name, counts[name])
	}
}

func init() {
	parseCmd.Flags().StringVar(&parseURL, "url", "", "document URL instead of a local file")
	parseCmd.Flags().BoolVar(&parseOCROnly, "ocr-only", false, "skip resume extraction, output raw OCR text")
	parseCmd.Flags().StringVar(&parseOutDir, "out", "", "directory for output artifacts (default: current directory)")

	rootCmd.AddCommand(parseCmd)
}
