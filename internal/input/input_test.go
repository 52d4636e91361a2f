package input

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/exportbot/internal/clock"
	"github.com/mj1618/exportbot/internal/config"
	"github.com/mj1618/exportbot/internal/logging"
	"github.com/mj1618/exportbot/internal/platform/platformtest"
)

func newSynth(t *testing.T, kb *platformtest.Keyboard, cb *platformtest.Clipboard) (*Synthesizer, *clock.Recorder) {
	t.Helper()
	rec := &clock.Recorder{}
	cfg := config.Default().Input
	s, err := New(kb, cb, rec, cfg, logging.Discard())
	require.NoError(t, err)
	return s, rec
}

func TestNew_InvalidPasteShortcut(t *testing.T) {
	cfg := config.Default().Input
	cfg.PasteShortcut = "ctrl+"
	_, err := New(&platformtest.Keyboard{}, nil, &clock.Recorder{}, cfg, logging.Discard())
	assert.Error(t, err)
}

func TestPressAndHotkey(t *testing.T) {
	kb := &platformtest.Keyboard{}
	s, _ := newSynth(t, kb, nil)
	ctx := context.Background()

	require.NoError(t, s.Hotkey(ctx, "Alt+D"))
	require.NoError(t, s.Press(ctx, "Down"))
	require.NoError(t, s.Press(ctx, "return"))

	assert.Equal(t, []string{"alt+d", "down", "enter"}, kb.Events)
}

func TestPressN_PacesEveryTap(t *testing.T) {
	kb := &platformtest.Keyboard{}
	s, rec := newSynth(t, kb, nil)

	require.NoError(t, s.PressN(context.Background(), "tab", 4))

	assert.Equal(t, 4, kb.Count("tab"))
	assert.Len(t, rec.Sleeps, 4)
	assert.Equal(t, 4*config.Default().Input.KeyInterval, rec.Total())
}

func TestPress_Cancelled(t *testing.T) {
	kb := &platformtest.Keyboard{}
	s, _ := newSynth(t, kb, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Press(ctx, "tab"), context.Canceled)
	assert.Empty(t, kb.Events)
}

func TestPress_BackendFailure(t *testing.T) {
	kb := &platformtest.Keyboard{FailOn: "enter"}
	s, _ := newSynth(t, kb, nil)
	assert.ErrorIs(t, s.Press(context.Background(), "enter"), platformtest.ErrInjected)
}

func TestPasteText_RestoresClipboard(t *testing.T) {
	kb := &platformtest.Keyboard{}
	cb := &platformtest.Clipboard{Text: "operator notes"}
	s, _ := newSynth(t, kb, cb)

	require.NoError(t, s.PasteText(context.Background(), `C:\data\a.mdp`))

	assert.Equal(t, []string{config.Default().Input.PasteShortcut}, kb.Events)
	assert.Equal(t, []string{`C:\data\a.mdp`, "operator notes"}, cb.Writes)
	assert.Equal(t, "operator notes", cb.Text)
}

func TestPasteText_RestoresOnPasteFailure(t *testing.T) {
	kb := &platformtest.Keyboard{FailOn: config.Default().Input.PasteShortcut}
	cb := &platformtest.Clipboard{Text: "keep me"}
	s, _ := newSynth(t, kb, cb)

	err := s.PasteText(context.Background(), "path")
	require.Error(t, err)
	assert.Equal(t, "keep me", cb.Text)
}

func TestPasteText_RestoresOnCancel(t *testing.T) {
	kb := &platformtest.Keyboard{}
	cb := &platformtest.Clipboard{Text: "keep me"}
	s, _ := newSynth(t, kb, cb)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.PasteText(ctx, "path"), context.Canceled)
	assert.Empty(t, kb.Events)
	assert.Equal(t, "keep me", cb.Text)
}

func TestPasteText_UnreadableClipboardRestoredEmpty(t *testing.T) {
	kb := &platformtest.Keyboard{}
	cb := &platformtest.Clipboard{Text: "binary", FailGet: true}
	s, _ := newSynth(t, kb, cb)

	require.NoError(t, s.PasteText(context.Background(), "path"))
	assert.Equal(t, "", cb.Text)
}

func TestPasteText_NoClipboard(t *testing.T) {
	s, _ := newSynth(t, &platformtest.Keyboard{}, nil)
	assert.Error(t, s.PasteText(context.Background(), "x"))
}

func TestWait(t *testing.T) {
	s, rec := newSynth(t, &platformtest.Keyboard{}, nil)
	require.NoError(t, s.Wait(context.Background(), time.Second))
	assert.Equal(t, []time.Duration{time.Second}, rec.Sleeps)
}
