package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/exportbot/internal/app"
	"github.com/mj1618/exportbot/internal/logging"
	"github.com/mj1618/exportbot/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing exportbot tools",
	Long: `Start a Model Context Protocol (MCP) server exposing the check, activate,
list_windows and export_files tools. Tool calls run one at a time and never
prompt: export_files treats the call itself as the operator's confirmation.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  exportbot serve
  exportbot serve --transport streamable-http --port 8080
  exportbot serve --cache-ttl 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 500, "Window list cache TTL in milliseconds (0 to disable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")

	scfg := server.Config{
		Transport: transport,
		Port:      port,
		CacheTTL:  time.Duration(cacheTTLMs) * time.Millisecond,
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// stdout carries the protocol, so logs always go to stderr.
	logger := logging.New(cmd.ErrOrStderr(), cfg.Debug.Verbose)
	provider, err := app.ResolveProvider(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	srv := server.New(cfg, app.Options{Provider: provider, Log: logger}, scfg)
	logger.Info("serving", "transport", transport, "title", cfg.Window.Title)
	return srv.Serve(cmd.Context(), scfg)
}
