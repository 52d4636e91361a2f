// Package input issues synthetic key events and clipboard text entry to the
// focused window, paced by a clock.
package input

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mj1618/exportbot/internal/clock"
	"github.com/mj1618/exportbot/internal/config"
	"github.com/mj1618/exportbot/internal/platform"
)

var errNoBackend = errors.New("no keyboard backend")

// Synthesizer drives a Keyboard and Clipboard.
type Synthesizer struct {
	keyboard  platform.Keyboard
	clipboard platform.Clipboard
	clock     clock.Clock
	log       *log.Logger

	interval  time.Duration
	clipWait  time.Duration
	pasteKeys []string
}

// New validates the paste shortcut and returns a Synthesizer. The clipboard
// may be nil, in which case PasteText fails.
func New(kb platform.Keyboard, cb platform.Clipboard, clk clock.Clock, cfg config.InputConfig, logger *log.Logger) (*Synthesizer, error) {
	paste, err := platform.ParseCombo(cfg.PasteShortcut)
	if err != nil {
		return nil, fmt.Errorf("paste shortcut: %w", err)
	}
	return &Synthesizer{
		keyboard:  kb,
		clipboard: cb,
		clock:     clk,
		log:       logger,
		interval:  cfg.KeyInterval,
		clipWait:  cfg.ClipboardWait,
		pasteKeys: paste,
	}, nil
}

// Press taps a single key.
func (s *Synthesizer) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.keyboard == nil {
		return errNoBackend
	}
	k, err := platform.NormalizeKey(key)
	if err != nil {
		return err
	}
	if err := s.keyboard.Press(k); err != nil {
		return fmt.Errorf("press %s: %w", k, err)
	}
	s.log.Debug("key", "press", k)
	return nil
}

// Hotkey sends a combination such as "alt+f".
func (s *Synthesizer) Hotkey(ctx context.Context, combo string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.keyboard == nil {
		return errNoBackend
	}
	keys, err := platform.ParseCombo(combo)
	if err != nil {
		return err
	}
	if err := s.keyboard.Combo(keys); err != nil {
		return fmt.Errorf("hotkey %s: %w", combo, err)
	}
	s.log.Debug("key", "combo", combo)
	return nil
}

// PressN taps key n times, pausing the key interval after each tap.
func (s *Synthesizer) PressN(ctx context.Context, key string, n int) error {
	for i := 0; i < n; i++ {
		if err := s.Press(ctx, key); err != nil {
			return err
		}
		if err := s.Pause(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Pause waits the configured key interval.
func (s *Synthesizer) Pause(ctx context.Context) error {
	return s.clock.Sleep(ctx, s.interval)
}

// Wait blocks for d or until ctx is done.
func (s *Synthesizer) Wait(ctx context.Context, d time.Duration) error {
	return s.clock.Sleep(ctx, d)
}

// PasteText enters text through the clipboard and the paste shortcut. The
// previous clipboard text is put back afterwards whatever the outcome; an
// unreadable clipboard is restored as empty. Restore failures are logged only.
func (s *Synthesizer) PasteText(ctx context.Context, text string) error {
	if s.clipboard == nil {
		return errors.New("no clipboard backend")
	}
	if s.keyboard == nil {
		return errNoBackend
	}

	prev, err := s.clipboard.GetText()
	if err != nil {
		s.log.Debug("clipboard unreadable, will restore as empty", "err", err)
		prev = ""
	}
	defer func() {
		if rerr := s.clipboard.SetText(prev); rerr != nil {
			s.log.Warn("clipboard restore failed", "err", rerr)
		}
	}()

	if err := s.clipboard.SetText(text); err != nil {
		return fmt.Errorf("set clipboard: %w", err)
	}
	if err := s.clock.Sleep(ctx, s.clipWait); err != nil {
		return err
	}
	if err := s.keyboard.Combo(s.pasteKeys); err != nil {
		return fmt.Errorf("paste: %w", err)
	}
	s.log.Debug("key", "paste", len(text))
	// The target reads the clipboard asynchronously after the shortcut.
	return s.clock.Sleep(ctx, s.clipWait)
}
