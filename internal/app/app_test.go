package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/exportbot/internal/batch"
	"github.com/mj1618/exportbot/internal/clock"
	"github.com/mj1618/exportbot/internal/config"
	"github.com/mj1618/exportbot/internal/logging"
	"github.com/mj1618/exportbot/internal/model"
	"github.com/mj1618/exportbot/internal/operator"
	"github.com/mj1618/exportbot/internal/platform"
	"github.com/mj1618/exportbot/internal/platform/platformtest"
	"github.com/mj1618/exportbot/internal/presence"
)

type noProcesses struct{}

func (noProcesses) Processes(context.Context) ([]presence.Process, error) { return nil, nil }

type fakes struct {
	kb   *platformtest.Keyboard
	clip *platformtest.Clipboard
	ws   *platformtest.WindowSystem
	q    *platformtest.WindowQuery
	shot *platformtest.Screenshotter
}

func newFakes() *fakes {
	target := model.Window{ID: 7, Title: "HZ-ANA - measurement", PID: 42}
	return &fakes{
		kb:   &platformtest.Keyboard{},
		clip: &platformtest.Clipboard{Text: "operator text"},
		ws:   &platformtest.WindowSystem{Windows: []model.Window{target}},
		q:    &platformtest.WindowQuery{Windows: []model.Window{target}},
		shot: &platformtest.Screenshotter{Width: 64, Height: 48},
	}
}

func (f *fakes) provider() *platform.Provider {
	return &platform.Provider{
		Keyboard:      f.kb,
		Clipboard:     f.clip,
		Windows:       f.ws,
		Query:         f.q,
		Screenshotter: f.shot,
	}
}

func files(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	var out []string
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
		out = append(out, p)
	}
	return out
}

func newSession(t *testing.T, cfg *config.Config, p *platform.Provider, dialogs operator.Dialogs) *Session {
	t.Helper()
	s, err := New(cfg, Options{
		Provider:  p,
		Dialogs:   dialogs,
		Clock:     &clock.Recorder{},
		Log:       logging.Discard(),
		Processes: noProcesses{},
	})
	require.NoError(t, err)
	return s
}

func TestSession_FullRun(t *testing.T) {
	f := newFakes()
	dialogs := &operator.Scripted{Answer: true}
	s := newSession(t, config.Default(), f.provider(), dialogs)

	var progress []int
	r := s.Runner(operator.StaticChooser{Paths: files(t, "a.mdp", "b.mdp")}, func(i, total int, _ model.ProcessingResult) {
		progress = append(progress, i)
		assert.Equal(t, 2, total)
	})
	out, err := r.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, batch.ExitCompleted, out.Exit)
	require.NotNil(t, out.Report)
	assert.Equal(t, 2, out.Report.Succeeded)
	assert.Equal(t, []int{1, 2}, progress)
	assert.Equal(t, 2, f.kb.Count(config.Default().Input.PasteShortcut), "one paste per file")
	assert.Equal(t, "operator text", f.clip.Text, "clipboard restored")
	assert.Equal(t, model.WindowID(7), f.ws.Active)
	assert.Nil(t, s.Snapshots)
}

func TestSession_FailuresWithoutSnapshots(t *testing.T) {
	f := newFakes()
	f.kb.FailOn = "alt+d"
	s := newSession(t, config.Default(), f.provider(), &operator.Scripted{Answer: true})

	out, err := s.Runner(operator.StaticChooser{Paths: files(t, "a.mdp")}, nil).Run(context.Background())

	require.NoError(t, err)
	require.NotNil(t, out.Report)
	assert.Equal(t, 1, out.Report.Failed)
	assert.Equal(t, model.StageReset, out.Report.Results[0].Stage)
	assert.Empty(t, out.Report.Results[0].Snapshot)
	assert.Zero(t, f.shot.Captures)
}

func TestSession_SnapshotOnFailure(t *testing.T) {
	f := newFakes()
	f.kb.FailOn = "alt+d"
	cfg := config.Default()
	cfg.Snapshot.Dir = t.TempDir()
	s := newSession(t, cfg, f.provider(), &operator.Scripted{Answer: true})
	require.NotNil(t, s.Snapshots)

	out, err := s.Runner(operator.StaticChooser{Paths: files(t, "a.mdp")}, nil).Run(context.Background())

	require.NoError(t, err)
	require.NotNil(t, out.Report)
	assert.Equal(t, 1, f.shot.Captures)
	assert.FileExists(t, out.Report.Results[0].Snapshot)
}

func TestSession_DryRunWithEmptyProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Debug.DryRun = true
	s := newSession(t, cfg, nil, &operator.Scripted{Answer: true})

	out, err := s.Runner(operator.StaticChooser{Paths: files(t, "a.mdp", "b.mdp", "c.mdp")}, nil).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, batch.ExitCompleted, out.Exit)
	require.NotNil(t, out.Report)
	assert.Equal(t, 3, out.Report.Succeeded)
	assert.True(t, out.Report.DryRun)
}

func TestSession_PresenceFallsBackToWindows(t *testing.T) {
	f := newFakes()
	p := f.provider()
	p.Query = nil
	s := newSession(t, config.Default(), p, &operator.Scripted{})

	m := s.Presence.Check(context.Background(), "hz-ana")
	assert.True(t, m.Found)
	assert.Equal(t, "window", m.Source)
	assert.Equal(t, 1, f.ws.EnumCalls)
}

func TestSession_DialogsDefaultToProvider(t *testing.T) {
	dialogs := &operator.Scripted{}
	s := newSession(t, config.Default(), &platform.Provider{Dialogs: dialogs}, nil)
	assert.Same(t, dialogs, s.Dialogs)
}

func TestResolveProvider(t *testing.T) {
	// No backend package is linked into this test binary.
	_, err := ResolveProvider(config.Default(), logging.Discard())
	assert.ErrorIs(t, err, platform.ErrUnsupported)

	cfg := config.Default()
	cfg.Debug.DryRun = true
	p, err := ResolveProvider(cfg, logging.Discard())
	require.NoError(t, err)
	assert.NotNil(t, p)
	assert.Nil(t, p.Keyboard)
}

func TestSession_ListWindows(t *testing.T) {
	f := newFakes()
	f.ws.Windows = append(f.ws.Windows, model.Window{ID: 9, Title: "Terminal"})
	f.ws.Active = 9
	s := newSession(t, config.Default(), f.provider(), nil)

	matched, err := s.ListWindows("hz-ana", false)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, model.WindowID(7), matched[0].ID)
	assert.False(t, matched[0].Focused)

	all, err := s.ListWindows("hz-ana", true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[1].Focused)
}

func TestSession_ListWindowsQueryOnly(t *testing.T) {
	f := newFakes()
	s := newSession(t, config.Default(), &platform.Provider{Query: f.q}, nil)

	matched, err := s.ListWindows("HZ-ANA", false)
	require.NoError(t, err)
	assert.Len(t, matched, 1)

	_, err = s.ListWindows("", true)
	assert.ErrorIs(t, err, platform.ErrBackendUnavailable)
}
