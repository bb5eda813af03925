package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/vitae/internal/config"
	"github.com/jackzampolin/vitae/internal/server"
	"github.com/jackzampolin/vitae/internal/server/endpoints"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Vitae server",
	Long: `Start the Vitae HTTP server.

The server provides:
  - /              - Service descriptor
  - /health        - Health check (includes API key status)
  - /status        - Registered providers
  - /parse-resume  - Upload a resume, get structured JSON
  - /ocr           - Upload a document or submit a URL, get raw OCR text
  - /swagger       - API documentation

Configuration is hot-reloaded from the config file; provider credentials
and models can change without a restart.

Examples:
  vitae serve                    # Start on default port 8000
  vitae serve --port 3000        # Start on custom port
  vitae serve --host 127.0.0.1   # Bind to loopback only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}

		// A missing credential is fatal at startup, not at first request.
		if !cm.Get().APIKeyConfigured() {
			return errors.New("MISTRAL_API_KEY is not configured; set the environment variable or edit the config file")
		}

		cm.WatchConfig()

		host := serveHost
		port := servePort
		if host == "" {
			host = cm.Get().Server.Host
		}
		if port == "" {
			port = cm.Get().Server.Port
		}

		srv, err := server.New(server.Config{
			Host:            host,
			Port:            port,
			ConfigManager:   cm,
			SwaggerSpecPath: endpoints.GetSwaggerSpecPath(),
			Logger:          logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default from config)")

	rootCmd.AddCommand(serveCmd)
}
