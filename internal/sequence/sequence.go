// Package sequence holds the keystroke choreography for the target
// application's reset, open and export operations.
package sequence

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mj1618/exportbot/internal/config"
	"github.com/mj1618/exportbot/internal/input"
	"github.com/mj1618/exportbot/internal/model"
	"github.com/mj1618/exportbot/internal/operator"
	"github.com/mj1618/exportbot/internal/platform"
)

// Activator brings the target window to the foreground.
type Activator interface {
	Activate(ctx context.Context, title string) bool
}

// Sequencer runs the per-file operations against the focused window. Every
// operation reports a boolean outcome and logs the reason for a failure.
type Sequencer struct {
	in      *input.Synthesizer
	act     Activator
	dialogs operator.Dialogs
	cfg     *config.Config
	log     *log.Logger
}

// New returns a Sequencer. dialogs may be nil, in which case a failed
// re-activation is only logged.
func New(in *input.Synthesizer, act Activator, dialogs operator.Dialogs, cfg *config.Config, logger *log.Logger) *Sequencer {
	return &Sequencer{in: in, act: act, dialogs: dialogs, cfg: cfg, log: logger}
}

func (s *Sequencer) dryRun() bool { return s.cfg.Debug.DryRun }

func (s *Sequencer) run(ctx context.Context, op string, steps func(context.Context) error) bool {
	if s.dryRun() {
		s.log.Info("[dry-run] skipping " + op)
		return true
	}
	if err := steps(ctx); err != nil {
		s.log.Error(op+" failed", "err", err)
		return false
	}
	s.log.Debug(op + " done")
	return true
}

func (s *Sequencer) menu(key string) string {
	return platform.KeyAlt + "+" + key
}

// Reset clears the displayed data: data menu, one item down, confirm.
func (s *Sequencer) Reset(ctx context.Context) bool {
	return s.run(ctx, "reset", func(ctx context.Context) error {
		if err := s.in.Hotkey(ctx, s.menu(s.cfg.Input.ResetMenuKey)); err != nil {
			return err
		}
		if err := s.in.Press(ctx, platform.KeyDown); err != nil {
			return err
		}
		if err := s.in.Press(ctx, platform.KeyEnter); err != nil {
			return err
		}
		return s.in.Wait(ctx, s.cfg.Files.DataResetWait)
	})
}

// OpenDialog shows the file-open dialog: file menu, confirm the first item.
func (s *Sequencer) OpenDialog(ctx context.Context) bool {
	return s.run(ctx, "open dialog", func(ctx context.Context) error {
		if err := s.in.Hotkey(ctx, s.menu(s.cfg.Input.FileMenuKey)); err != nil {
			return err
		}
		if err := s.in.Pause(ctx); err != nil {
			return err
		}
		if err := s.in.Press(ctx, platform.KeyEnter); err != nil {
			return err
		}
		return s.in.Wait(ctx, s.cfg.Files.DialogWait)
	})
}

// Open enters path into the open dialog through the clipboard, confirms it,
// then moves to the file list and opens the selection.
func (s *Sequencer) Open(ctx context.Context, path string) bool {
	return s.run(ctx, "open "+path, func(ctx context.Context) error {
		if err := s.in.PasteText(ctx, TargetPath(path, s.cfg.Files.PathSeparator)); err != nil {
			return err
		}
		for _, key := range []string{platform.KeyEnter, platform.KeyTab} {
			if err := s.in.Pause(ctx); err != nil {
				return err
			}
			if err := s.in.Press(ctx, key); err != nil {
				return err
			}
		}
		if err := s.in.Pause(ctx); err != nil {
			return err
		}
		if err := s.in.Press(ctx, platform.KeySpace); err != nil {
			return err
		}
		return s.in.Wait(ctx, s.cfg.Files.FileOpenWait)
	})
}

// Export writes the loaded data: file menu, two items up, confirm, tab to
// the format list, tick every format, tab to the write button, press it and
// answer a possible overwrite prompt.
func (s *Sequencer) Export(ctx context.Context) bool {
	ex := s.cfg.Export
	return s.run(ctx, "export", func(ctx context.Context) error {
		if err := s.in.Hotkey(ctx, s.menu(s.cfg.Input.FileMenuKey)); err != nil {
			return err
		}
		if err := s.in.Pause(ctx); err != nil {
			return err
		}
		for i := 0; i < 2; i++ {
			if err := s.in.Press(ctx, platform.KeyUp); err != nil {
				return err
			}
		}
		if err := s.in.Pause(ctx); err != nil {
			return err
		}
		if err := s.in.Press(ctx, platform.KeyEnter); err != nil {
			return err
		}
		if err := s.in.Wait(ctx, s.cfg.Files.DialogWait); err != nil {
			return err
		}

		if err := s.in.PressN(ctx, platform.KeyTab, ex.TabCount); err != nil {
			return err
		}
		for i := 0; i < ex.SelectionCount; i++ {
			if err := s.in.PressN(ctx, platform.KeySpace, 1); err != nil {
				return err
			}
			if err := s.in.PressN(ctx, platform.KeyDown, 1); err != nil {
				return err
			}
		}
		if err := s.in.PressN(ctx, platform.KeyTab, ex.ButtonTabCount); err != nil {
			return err
		}
		if err := s.in.Press(ctx, platform.KeySpace); err != nil {
			return err
		}
		if err := s.in.Wait(ctx, s.cfg.Files.ExportWait); err != nil {
			return err
		}

		// No-op when the file did not exist yet.
		if err := s.in.Press(ctx, s.cfg.Input.OverwriteKey); err != nil {
			return err
		}
		return s.in.Wait(ctx, ex.OverwriteWait)
	})
}

// ProcessFile runs reset, open dialog, open, re-activation and export in
// order, stopping at the first failed stage. The window is re-activated after
// opening because the dialog can leave focus elsewhere.
func (s *Sequencer) ProcessFile(ctx context.Context, f model.TargetFile) model.ProcessingResult {
	res := model.ProcessingResult{File: f}
	s.log.Info("processing", "file", f.Name())

	fail := func(stage model.Stage) model.ProcessingResult {
		res.Stage = stage
		return res
	}
	if !s.Reset(ctx) {
		return fail(model.StageReset)
	}
	if !s.OpenDialog(ctx) {
		return fail(model.StageOpenDialog)
	}
	if !s.Open(ctx, f.Path) {
		return fail(model.StageOpen)
	}
	if !s.act.Activate(ctx, s.cfg.Window.Title) && !s.dryRun() {
		if s.dialogs != nil && ctx.Err() == nil {
			if err := s.dialogs.Error("Error", "Failed to activate the target window."); err != nil {
				s.log.Warn("error dialog failed", "err", err)
			}
		}
		return fail(model.StageActivation)
	}
	if !s.Export(ctx) {
		return fail(model.StageExport)
	}

	res.OK = true
	s.log.Info("processed", "file", f.Name())
	return res
}

// TargetPath rewrites every directory separator in path to sep.
func TargetPath(path, sep string) string {
	if sep == "/" {
		return strings.ReplaceAll(path, `\`, "/")
	}
	return strings.ReplaceAll(path, "/", sep)
}
