// Package server exposes the export bot as Model Context Protocol tools.
package server

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mj1618/exportbot/internal/app"
	"github.com/mj1618/exportbot/internal/config"
	"github.com/mj1618/exportbot/internal/logging"
	"github.com/mj1618/exportbot/internal/operator"
	"github.com/mj1618/exportbot/internal/version"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
}

// Server wraps the MCP server with the runtime configuration and a cache.
type Server struct {
	cfg   *config.Config
	opts  app.Options
	log   *log.Logger
	cache *WindowCache
	// mu serializes every tool call so two batches never drive input at once.
	mu  sync.Mutex
	mcp *mcpserver.MCPServer
}

// New creates an MCP server with all exportbot tools. opts supplies the
// platform provider and clock; dialogs are always scripted since no operator
// is watching.
func New(cfg *config.Config, opts app.Options, scfg Config) *Server {
	logger := opts.Log
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		cfg:   cfg,
		opts:  opts,
		log:   logger,
		cache: NewWindowCache(scfg.CacheTTL),
		mcp:   mcpserver.NewMCPServer("exportbot", version.Version),
	}
	s.registerTools()
	return s
}

// Serve runs the configured transport until ctx is cancelled or the client
// disconnects.
func (s *Server) Serve(ctx context.Context, scfg Config) error {
	switch scfg.Transport {
	case "stdio":
		return mcpserver.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		go func() {
			<-ctx.Done()
			if err := httpServer.Shutdown(context.Background()); err != nil {
				s.log.Warn("http shutdown failed", "err", err)
			}
		}()
		return httpServer.Start(fmt.Sprintf(":%d", scfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", scfg.Transport)
	}
}

// session wires components for one tool call. An empty title keeps the
// configured one. The caller must hold s.mu.
func (s *Server) session(title string, dryRun bool) (*app.Session, *operator.Scripted, error) {
	cfg := *s.cfg
	if title != "" {
		cfg.Window.Title = title
	}
	if dryRun {
		cfg.Debug.DryRun = true
	}
	dialogs := &operator.Scripted{Answer: true}
	opts := s.opts
	opts.Dialogs = dialogs
	opts.Log = s.log
	sess, err := app.New(&cfg, opts)
	if err != nil {
		return nil, nil, err
	}
	return sess, dialogs, nil
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("check",
			mcp.WithDescription("Check whether the target application is running, by process name, command line or window title"),
			mcp.WithString("title", mcp.Description("Title substring to look for (defaults to the configured window title)")),
		),
		s.handleCheck,
	)

	s.mcp.AddTool(
		mcp.NewTool("activate",
			mcp.WithDescription("Bring the target window to the foreground, retrying across activation backends"),
			mcp.WithString("title", mcp.Description("Title substring (defaults to the configured window title)")),
		),
		s.handleActivate,
	)

	s.mcp.AddTool(
		mcp.NewTool("list_windows",
			mcp.WithDescription("List top-level windows whose title matches, or all windows"),
			mcp.WithString("title", mcp.Description("Title substring (defaults to the configured window title)")),
			mcp.WithBoolean("all", mcp.Description("List every top-level window")),
		),
		s.handleListWindows,
	)

	s.mcp.AddTool(
		mcp.NewTool("export_files",
			mcp.WithDescription("Open each file in the target application and export it. Directories contribute their files with an allowed extension. Runs without confirmation prompts."),
			mcp.WithArray("paths",
				mcp.Required(),
				mcp.Description("Files or directories to process, in order"),
				mcp.Items(map[string]any{"type": "string"}),
			),
			mcp.WithString("title", mcp.Description("Title substring (defaults to the configured window title)")),
			mcp.WithBoolean("dry_run", mcp.Description("Log the steps without sending any input")),
		),
		s.handleExportFiles,
	)
}
