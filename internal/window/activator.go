package window

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mj1618/exportbot/internal/clock"
	"github.com/mj1618/exportbot/internal/config"
)

// Attempt records one strategy try within an activation call.
type Attempt struct {
	Index   int    `yaml:"attempt" json:"attempt"`
	Backend string `yaml:"backend" json:"backend"`
	OK      bool   `yaml:"ok" json:"ok"`
	Error   string `yaml:"error,omitempty" json:"error,omitempty"`
}

// Result is the outcome of an activation call.
type Result struct {
	OK       bool      `yaml:"ok" json:"ok"`
	Backend  string    `yaml:"backend,omitempty" json:"backend,omitempty"`
	DryRun   bool      `yaml:"dry_run,omitempty" json:"dry_run,omitempty"`
	Attempts []Attempt `yaml:"attempts,omitempty" json:"attempts,omitempty"`
}

// Activator retries a ranked strategy list until one succeeds.
type Activator struct {
	strategies []Strategy
	attempts   int
	interval   time.Duration
	dryRun     bool
	clock      clock.Clock
	log        *log.Logger
}

// NewActivator makes cfg.RetryCount+1 rounds over strategies. In dry-run mode
// every call succeeds without touching a backend.
func NewActivator(strategies []Strategy, cfg config.WindowConfig, dryRun bool, clk clock.Clock, logger *log.Logger) *Activator {
	return &Activator{
		strategies: strategies,
		attempts:   cfg.RetryCount + 1,
		interval:   cfg.RetryInterval,
		dryRun:     dryRun,
		clock:      clk,
		log:        logger,
	}
}

// Activate brings the first window whose title contains title to the
// foreground. It never returns an error: backend failures count as failed
// attempts and cancellation ends the call with false.
func (a *Activator) Activate(ctx context.Context, title string) bool {
	return a.ActivateDetailed(ctx, title).OK
}

// ActivateDetailed is Activate with the per-attempt record.
func (a *Activator) ActivateDetailed(ctx context.Context, title string) Result {
	if a.dryRun {
		a.log.Info("[dry-run] skipping window activation", "title", title)
		return Result{OK: true, DryRun: true}
	}
	res := firstSuccess(ctx, a.clock, a.strategies, a.attempts, a.interval, title, a.log)
	if res.OK {
		a.log.Info("window activated", "title", title, "backend", res.Backend)
	} else {
		a.log.Warn("window activation failed", "title", title, "attempts", a.attempts)
	}
	return res
}

// firstSuccess runs up to attempts rounds. Each round tries every strategy in
// order and stops at the first success; rounds after the first are preceded
// by a sleep of interval.
func firstSuccess(ctx context.Context, clk clock.Clock, strategies []Strategy, attempts int, interval time.Duration, title string, logger *log.Logger) Result {
	var res Result
	for i := 0; i < attempts; i++ {
		if i > 0 {
			logger.Debug("retrying activation", "attempt", i, "of", attempts-1)
			if err := clk.Sleep(ctx, interval); err != nil {
				return res
			}
		}
		for _, s := range strategies {
			if ctx.Err() != nil {
				return res
			}
			err := s.TryActivate(ctx, title)
			at := Attempt{Index: i, Backend: s.Name(), OK: err == nil}
			if err != nil {
				at.Error = err.Error()
				logger.Debug("activation attempt failed", "backend", s.Name(), "attempt", i, "err", err)
			}
			res.Attempts = append(res.Attempts, at)
			if err == nil {
				res.OK = true
				res.Backend = s.Name()
				return res
			}
		}
	}
	return res
}
