// Package app assembles the automation components from a configuration and
// a platform provider. The CLI and the MCP server share it.
package app

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/mj1618/exportbot/internal/batch"
	"github.com/mj1618/exportbot/internal/clock"
	"github.com/mj1618/exportbot/internal/config"
	"github.com/mj1618/exportbot/internal/input"
	"github.com/mj1618/exportbot/internal/logging"
	"github.com/mj1618/exportbot/internal/model"
	"github.com/mj1618/exportbot/internal/operator"
	"github.com/mj1618/exportbot/internal/platform"
	"github.com/mj1618/exportbot/internal/presence"
	"github.com/mj1618/exportbot/internal/sequence"
	"github.com/mj1618/exportbot/internal/snapshot"
	"github.com/mj1618/exportbot/internal/window"
)

// Options carries the collaborators a Session does not build itself.
type Options struct {
	Provider *platform.Provider
	Dialogs  operator.Dialogs
	Clock    clock.Clock
	Log      *log.Logger
	// Processes overrides the OS process table, for tests.
	Processes presence.Lister
}

// Session is one wired set of components for a configuration.
type Session struct {
	Config    *config.Config
	Provider  *platform.Provider
	Dialogs   operator.Dialogs
	Clock     clock.Clock
	Log       *log.Logger
	Input     *input.Synthesizer
	Activator *window.Activator
	Presence  *presence.Checker
	Sequencer *sequence.Sequencer
	Snapshots *snapshot.Taker
}

// ResolveProvider returns the OS provider. In dry-run mode a missing backend
// is tolerated and an empty provider is returned, since nothing will call it.
func ResolveProvider(cfg *config.Config, logger *log.Logger) (*platform.Provider, error) {
	p, err := platform.NewProvider()
	if err == nil {
		return p, nil
	}
	if cfg.Debug.DryRun {
		logger.Warn("no platform backend, continuing in dry-run mode", "err", err)
		return &platform.Provider{}, nil
	}
	if errors.Is(err, platform.ErrUnsupported) {
		return nil, err
	}
	return nil, fmt.Errorf("platform backend: %w", err)
}

// New wires a Session. Provider, Clock and Log default to an empty provider,
// the wall clock and a discarding logger. Dialogs defaults to the provider's.
func New(cfg *config.Config, opts Options) (*Session, error) {
	p := opts.Provider
	if p == nil {
		p = &platform.Provider{}
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	logger := opts.Log
	if logger == nil {
		logger = logging.Discard()
	}
	dialogs := opts.Dialogs
	if dialogs == nil {
		dialogs = p.Dialogs
	}

	in, err := input.New(p.Keyboard, p.Clipboard, clk, cfg.Input, logger.WithPrefix("input"))
	if err != nil {
		return nil, err
	}
	act := window.NewActivator(
		window.Strategies(p.Windows, p.Query, clk, cfg.Window, logger.WithPrefix("window")),
		cfg.Window, cfg.Debug.DryRun, clk, logger.WithPrefix("window"),
	)

	var finder presence.WindowFinder
	switch {
	case p.Query != nil:
		finder = p.Query
	case p.Windows != nil:
		finder = presence.Windows{WS: p.Windows}
	}
	procs := opts.Processes
	if procs == nil {
		procs = presence.SystemProcesses{}
	}

	return &Session{
		Config:    cfg,
		Provider:  p,
		Dialogs:   dialogs,
		Clock:     clk,
		Log:       logger,
		Input:     in,
		Activator: act,
		Presence:  presence.New(procs, finder, logger.WithPrefix("presence")),
		Sequencer: sequence.New(in, act, dialogs, cfg, logger.WithPrefix("sequence")),
		Snapshots: snapshot.New(p.Screenshotter, cfg.Snapshot, logger.WithPrefix("snapshot")),
	}, nil
}

// Runner returns a batch runner over this session's components.
func (s *Session) Runner(chooser operator.Chooser, progress func(i, total int, res model.ProcessingResult)) *batch.Runner {
	deps := batch.Deps{
		Presence:  s.Presence,
		Chooser:   chooser,
		Dialogs:   s.Dialogs,
		Activator: s.Activator,
		Processor: s.Sequencer,
		Clock:     s.Clock,
		Log:       s.Log.WithPrefix("batch"),
		Progress:  progress,
	}
	if s.Snapshots != nil {
		deps.Snapshots = s.Snapshots
	}
	return batch.New(s.Config, deps)
}

// ListWindows returns the windows whose title contains title, or every
// top-level window when all is set. Low-level enumeration is preferred since
// it also reports the foreground window; the query backend cannot list all.
func (s *Session) ListWindows(title string, all bool) ([]model.Window, error) {
	p := s.Provider
	switch {
	case p.Windows != nil:
		windows, err := p.Windows.EnumWindows()
		if err != nil {
			return nil, fmt.Errorf("enumerate windows: %w", err)
		}
		if fg, err := p.Windows.Foreground(); err == nil {
			for i := range windows {
				windows[i].Focused = windows[i].ID == fg
			}
		}
		if all {
			return windows, nil
		}
		return model.FilterByTitle(windows, title), nil
	case p.Query != nil && !all:
		return p.Query.FindByTitle(title)
	}
	return nil, fmt.Errorf("window listing: %w", platform.ErrBackendUnavailable)
}
