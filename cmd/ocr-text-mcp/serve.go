package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/ocr-text-mcp/internal/config"
	"github.com/ironsheep/ocr-text-mcp/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdin/stdout",
	Long: `Run the MCP server on stdin/stdout.

This is also what runs when no subcommand is given. When a config file is in
use it is watched, and rule or option changes apply to the next tool call.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	srv, err := server.New(
		server.WithConfig(cfgManager.Get()),
		server.WithLogger(logger),
		server.WithVersion(Version),
	)
	if err != nil {
		return err
	}

	if cfgManager.ConfigFile() != "" {
		cfgManager.OnChange(func(cfg *config.Config) {
			if err := srv.Reconfigure(cfg); err != nil {
				logger.Error("failed to apply config", "error", err)
			}
		})
		cfgManager.WatchConfig()
	}

	logger.Info("ocr-text-mcp starting",
		"version", Version,
		"build_time", BuildTime,
		"commit", GitCommit,
		"config", cfgManager.ConfigFile(),
	)
	return srv.Run(ctx)
}
