package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/exportbot/internal/batch"
	"github.com/mj1618/exportbot/internal/model"
	"github.com/mj1618/exportbot/internal/operator"
	"github.com/mj1618/exportbot/internal/presence"
	"github.com/mj1618/exportbot/internal/window"
)

type checkResult struct {
	Title          string `yaml:"title"`
	presence.Match `yaml:",inline"`
}

type activateResult struct {
	Title         string `yaml:"title"`
	window.Result `yaml:",inline"`
}

type listResult struct {
	Title   string         `yaml:"title,omitempty"`
	Windows []model.Window `yaml:"windows"`
}

type exportResult struct {
	Exit      batch.Exit         `yaml:"exit"`
	Selection *batch.Selection   `yaml:"selection,omitempty"`
	Report    *model.BatchReport `yaml:"report,omitempty"`
	Messages  []string           `yaml:"messages,omitempty"`
	Error     string             `yaml:"error,omitempty"`
}

// toText serializes a tool result to YAML for the MCP response.
func toText(v any) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	return string(b)
}

func (s *Server) handleCheck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, _, err := s.session(request.GetString("title", ""), false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title := sess.Config.Window.Title
	return mcp.NewToolResultText(toText(checkResult{Title: title, Match: sess.Presence.Check(ctx, title)})), nil
}

func (s *Server) handleActivate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, _, err := s.session(request.GetString("title", ""), false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title := sess.Config.Window.Title
	res := activateResult{Title: title, Result: sess.Activator.ActivateDetailed(ctx, title)}
	s.cache.InvalidateAll()

	if !res.OK {
		return mcp.NewToolResultError(toText(res)), nil
	}
	return mcp.NewToolResultText(toText(res)), nil
}

func (s *Server) handleListWindows(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	all := request.GetBool("all", false)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, _, err := s.session(request.GetString("title", ""), false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title := sess.Config.Window.Title
	windows, err := s.cache.Windows(title, all, sess.ListWindows)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := listResult{Windows: windows}
	if !all {
		res.Title = title
	}
	return mcp.NewToolResultText(toText(res)), nil
}

func (s *Server) handleExportFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	paths := request.GetStringSlice("paths", nil)
	if len(paths) == 0 {
		return mcp.NewToolResultError("paths is required"), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, dialogs, err := s.session(request.GetString("title", ""), request.GetBool("dry_run", false))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := sess.Runner(operator.StaticChooser{Paths: paths}, nil).Run(ctx)
	s.cache.InvalidateAll()

	res := exportResult{
		Exit:      out.Exit,
		Selection: out.Selection,
		Report:    out.Report,
		Messages:  dialogs.Messages,
	}
	if err != nil {
		res.Error = err.Error()
	}
	switch out.Exit {
	case batch.ExitCompleted, batch.ExitNoFiles:
		return mcp.NewToolResultText(toText(res)), nil
	default:
		return mcp.NewToolResultError(toText(res)), nil
	}
}
