// Package window locates the target window by title and brings it to the
// foreground through a ranked list of activation strategies.
package window

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mj1618/exportbot/internal/clock"
	"github.com/mj1618/exportbot/internal/config"
	"github.com/mj1618/exportbot/internal/model"
	"github.com/mj1618/exportbot/internal/platform"
)

// Backend names reported in attempts.
const (
	BackendLowLevel = "low-level"
	BackendQuery    = "query"
)

// Strategy is one way of activating a window. TryActivate returns nil only
// when the strategy considers the window activated.
type Strategy interface {
	Name() string
	TryActivate(ctx context.Context, title string) error
}

// ErrNotForeground means the activation calls succeeded but the OS reports a
// different foreground window.
var ErrNotForeground = errors.New("window did not reach the foreground")

// ForceStrategy enumerates windows itself and forces the first match forward,
// then verifies by reading back the foreground window.
type ForceStrategy struct {
	ws          platform.WindowSystem
	clock       clock.Clock
	restoreWait time.Duration
	verifyWait  time.Duration
	log         *log.Logger
}

func NewForceStrategy(ws platform.WindowSystem, clk clock.Clock, cfg config.WindowConfig, logger *log.Logger) *ForceStrategy {
	return &ForceStrategy{
		ws:          ws,
		clock:       clk,
		restoreWait: cfg.RestoreWait,
		verifyWait:  cfg.VerifyWait,
		log:         logger,
	}
}

func (f *ForceStrategy) Name() string { return BackendLowLevel }

func (f *ForceStrategy) TryActivate(ctx context.Context, title string) error {
	windows, err := f.ws.EnumWindows()
	if err != nil {
		return fmt.Errorf("enumerate windows: %w", err)
	}
	w, ok := model.FirstMatch(windows, title)
	if !ok {
		return fmt.Errorf("%w: %q", platform.ErrWindowNotFound, title)
	}

	if f.ws.IsIconic(w.ID) {
		if err := f.ws.Restore(w.ID); err != nil {
			return fmt.Errorf("restore %s: %w", w.ID, err)
		}
		if err := f.clock.Sleep(ctx, f.restoreWait); err != nil {
			return err
		}
	}
	if err := f.ws.Show(w.ID); err != nil {
		return fmt.Errorf("show %s: %w", w.ID, err)
	}
	if err := f.ws.SetForeground(w.ID); err != nil {
		f.log.Debug("set foreground refused, raising instead", "window", w.ID, "err", err)
		if err := f.ws.BringToTop(w.ID); err != nil {
			return fmt.Errorf("bring %s to top: %w", w.ID, err)
		}
	}

	if err := f.clock.Sleep(ctx, f.verifyWait); err != nil {
		return err
	}
	fg, err := f.ws.Foreground()
	if err != nil {
		return fmt.Errorf("read foreground: %w", err)
	}
	if fg != w.ID {
		return fmt.Errorf("%w: want %s, got %s", ErrNotForeground, w.ID, fg)
	}
	return nil
}

// QueryStrategy delegates both lookup and activation to a higher-level
// backend. Success is the absence of an error; the foreground is not re-checked.
type QueryStrategy struct {
	q      platform.WindowQuery
	clock  clock.Clock
	settle time.Duration
}

func NewQueryStrategy(q platform.WindowQuery, clk clock.Clock, cfg config.WindowConfig) *QueryStrategy {
	return &QueryStrategy{q: q, clock: clk, settle: cfg.ActivationWait}
}

func (s *QueryStrategy) Name() string { return BackendQuery }

func (s *QueryStrategy) TryActivate(ctx context.Context, title string) error {
	windows, err := s.q.FindByTitle(title)
	if err != nil {
		return fmt.Errorf("find windows: %w", err)
	}
	if len(windows) == 0 {
		return fmt.Errorf("%w: %q", platform.ErrWindowNotFound, title)
	}
	if err := s.q.Activate(windows[0]); err != nil {
		return fmt.Errorf("activate %s: %w", windows[0].ID, err)
	}
	return s.clock.Sleep(ctx, s.settle)
}

// Strategies ranks the available backends. Nil backends are skipped. The
// low-level strategy goes first when cfg.PreferLowLevel is set. Otherwise it
// still runs, as the last resort after the query strategy.
func Strategies(ws platform.WindowSystem, q platform.WindowQuery, clk clock.Clock, cfg config.WindowConfig, logger *log.Logger) []Strategy {
	var force, query Strategy
	if ws != nil {
		force = NewForceStrategy(ws, clk, cfg, logger)
	}
	if q != nil {
		query = NewQueryStrategy(q, clk, cfg)
	}
	ordered := []Strategy{query, force}
	if cfg.PreferLowLevel {
		ordered = []Strategy{force, query}
	}
	var out []Strategy
	for _, s := range ordered {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
