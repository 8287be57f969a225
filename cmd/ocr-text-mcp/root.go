package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/ocr-text-mcp/internal/config"
)

var (
	cfgFile  string
	logLevel string

	// Set by loadConfig before any subcommand runs.
	cfgManager *config.Manager
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ocr-text-mcp",
	Short: "Clean up German OCR text and serve the pipeline over MCP",
	Long: `ocr-text-mcp post-processes raw OCR output of German newspaper text.

Each recognized region is cleaned on its own (hyphenated line breaks are
rejoined, doubled punctuation collapsed and known misreadings corrected).
The regions are then joined in sequence order, sentence boundaries are
inserted after clause-final verbs and the spacing is normalized.

Without a subcommand the MCP server runs on stdin/stdout. Configure it in
your MCP client (e.g., Claude Desktop).

Environment variables:
  OCRTEXT_LOG_LEVEL=debug       Enable debug logging
  OCRTEXT_OCR_LANGUAGE=deu      Tesseract language
  OCRTEXT_OCR_TESSDATA_PREFIX   Directory holding *.traineddata`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./ocr-text.yaml or ~/.ocr-text/ocr-text.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn or error (overrides the config file)",
	)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration and installs the stderr logger. Stdout
// is reserved for MCP traffic and command output.
func loadConfig(cmd *cobra.Command, args []string) error {
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		return err
	}
	cfgManager = mgr

	level := mgr.Get().SlogLevel()
	if logLevel != "" {
		level, err = config.ParseLogLevel(logLevel)
		if err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}
