package sequence

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/exportbot/internal/clock"
	"github.com/mj1618/exportbot/internal/config"
	"github.com/mj1618/exportbot/internal/input"
	"github.com/mj1618/exportbot/internal/logging"
	"github.com/mj1618/exportbot/internal/model"
	"github.com/mj1618/exportbot/internal/operator"
	"github.com/mj1618/exportbot/internal/platform/platformtest"
)

type fakeActivator struct {
	ok    bool
	calls int
}

func (f *fakeActivator) Activate(context.Context, string) bool {
	f.calls++
	return f.ok
}

type fixture struct {
	seq     *Sequencer
	kb      *platformtest.Keyboard
	clip    *platformtest.Clipboard
	act     *fakeActivator
	dialogs *operator.Scripted
	clock   *clock.Recorder
}

func newFixture(t *testing.T, mutate func(*config.Config)) *fixture {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	f := &fixture{
		kb:      &platformtest.Keyboard{},
		clip:    &platformtest.Clipboard{Text: "before"},
		act:     &fakeActivator{ok: true},
		dialogs: &operator.Scripted{},
		clock:   &clock.Recorder{},
	}
	in, err := input.New(f.kb, f.clip, f.clock, cfg.Input, logging.Discard())
	require.NoError(t, err)
	f.seq = New(in, f.act, f.dialogs, cfg, logging.Discard())
	return f
}

func repeat(ev string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = ev
	}
	return out
}

func exportEvents(tabs, selections, buttonTabs int) []string {
	ev := []string{"alt+f", "up", "up", "enter"}
	ev = append(ev, repeat("tab", tabs)...)
	for i := 0; i < selections; i++ {
		ev = append(ev, "space", "down")
	}
	ev = append(ev, repeat("tab", buttonTabs)...)
	return append(ev, "space", "y")
}

func TestReset(t *testing.T) {
	f := newFixture(t, nil)
	require.True(t, f.seq.Reset(context.Background()))
	assert.Equal(t, []string{"alt+d", "down", "enter"}, f.kb.Events)
	assert.Equal(t, config.Default().Files.DataResetWait, f.clock.Total())
}

func TestOpenDialog(t *testing.T) {
	f := newFixture(t, nil)
	require.True(t, f.seq.OpenDialog(context.Background()))
	assert.Equal(t, []string{"alt+f", "enter"}, f.kb.Events)
}

func TestOpen_PastesTargetPathAndRestoresClipboard(t *testing.T) {
	f := newFixture(t, nil)
	require.True(t, f.seq.Open(context.Background(), "C:/data/run 1/a.mdp"))

	assert.Equal(t, []string{config.Default().Input.PasteShortcut, "enter", "tab", "space"}, f.kb.Events)
	require.NotEmpty(t, f.clip.Writes)
	assert.Equal(t, `C:\data\run 1\a.mdp`, f.clip.Writes[0])
	assert.Equal(t, "before", f.clip.Text)
}

func TestExport_DefaultLayout(t *testing.T) {
	f := newFixture(t, nil)
	require.True(t, f.seq.Export(context.Background()))
	assert.Equal(t, exportEvents(6, 3, 10), f.kb.Events)
}

func TestExport_CountsFromConfig(t *testing.T) {
	f := newFixture(t, func(c *config.Config) {
		c.Export.TabCount = 2
		c.Export.SelectionCount = 1
		c.Export.ButtonTabCount = 0
		c.Input.OverwriteKey = "o"
	})
	require.True(t, f.seq.Export(context.Background()))
	want := exportEvents(2, 1, 0)
	want[len(want)-1] = "o"
	assert.Equal(t, want, f.kb.Events)
}

func TestProcessFile_Success(t *testing.T) {
	f := newFixture(t, nil)
	res := f.seq.ProcessFile(context.Background(), model.NewTargetFile("/data/a.mdp"))

	assert.True(t, res.OK)
	assert.Equal(t, model.StageNone, res.Stage)
	assert.Equal(t, 1, f.act.calls)
	assert.Equal(t, "alt+d", f.kb.Events[0])
	assert.Equal(t, "y", f.kb.Events[len(f.kb.Events)-1])
}

func TestProcessFile_ResetFailureShortCircuits(t *testing.T) {
	f := newFixture(t, nil)
	f.kb.FailOn = "alt+d"

	res := f.seq.ProcessFile(context.Background(), model.NewTargetFile("a.mdp"))

	assert.False(t, res.OK)
	assert.Equal(t, model.StageReset, res.Stage)
	assert.Empty(t, f.kb.Events)
	assert.Empty(t, f.clip.Writes, "open must not run")
	assert.Zero(t, f.act.calls)
}

func TestProcessFile_ExportFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.kb.FailOn = "y"

	res := f.seq.ProcessFile(context.Background(), model.NewTargetFile("a.mdp"))

	assert.False(t, res.OK)
	assert.Equal(t, model.StageExport, res.Stage)
}

func TestProcessFile_ReactivationFailureAlerts(t *testing.T) {
	f := newFixture(t, nil)
	f.act.ok = false

	res := f.seq.ProcessFile(context.Background(), model.NewTargetFile("a.mdp"))

	assert.False(t, res.OK)
	assert.Equal(t, model.StageActivation, res.Stage)
	assert.Equal(t, 1, f.dialogs.Count("error"))
	for _, ev := range f.kb.Events {
		assert.NotEqual(t, "up", ev, "export must not run")
	}
}

func TestProcessFile_DryRun(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.Debug.DryRun = true })
	f.act.ok = false

	res := f.seq.ProcessFile(context.Background(), model.NewTargetFile("a.mdp"))

	assert.True(t, res.OK)
	assert.Empty(t, f.kb.Events)
	assert.Empty(t, f.clip.Writes)
	assert.Empty(t, f.clock.Sleeps)
	assert.Zero(t, f.dialogs.Count("error"))
}

func TestProcessFile_Cancelled(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := f.seq.ProcessFile(ctx, model.NewTargetFile("a.mdp"))
	assert.False(t, res.OK)
	assert.Equal(t, model.StageReset, res.Stage)
}

func TestTargetPath(t *testing.T) {
	tests := []struct {
		path, sep, want string
	}{
		{"C:/a/b.mdp", `\`, `C:\a\b.mdp`},
		{`C:\a\b.mdp`, `\`, `C:\a\b.mdp`},
		{`/home/u\x/b.mdp`, "/", "/home/u/x/b.mdp"},
	}
	for _, tt := range tests {
		got := TargetPath(tt.path, tt.sep)
		assert.Equal(t, tt.want, got, strings.Join([]string{tt.path, tt.sep}, " "))
	}
}
