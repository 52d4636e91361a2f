package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/exportbot/internal/clock"
	"github.com/mj1618/exportbot/internal/config"
	"github.com/mj1618/exportbot/internal/input"
	"github.com/mj1618/exportbot/internal/logging"
	"github.com/mj1618/exportbot/internal/model"
	"github.com/mj1618/exportbot/internal/operator"
	"github.com/mj1618/exportbot/internal/platform/platformtest"
	"github.com/mj1618/exportbot/internal/sequence"
	"github.com/mj1618/exportbot/internal/window"
)

type fakePresence struct {
	found bool
	calls int
}

func (p *fakePresence) Exists(context.Context, string) bool {
	p.calls++
	return p.found
}

type fakeActivator struct {
	ok    bool
	calls int
}

func (a *fakeActivator) Activate(context.Context, string) bool {
	a.calls++
	return a.ok
}

type fakeProcessor struct {
	fail   map[string]model.Stage
	seen   []string
	onCall func(n int)
}

func (p *fakeProcessor) ProcessFile(_ context.Context, f model.TargetFile) model.ProcessingResult {
	p.seen = append(p.seen, f.Name())
	if p.onCall != nil {
		p.onCall(len(p.seen))
	}
	if stage, ok := p.fail[f.Name()]; ok {
		return model.ProcessingResult{File: f, Stage: stage}
	}
	return model.ProcessingResult{File: f, OK: true}
}

type countingChooser struct {
	operator.StaticChooser
	calls int
	err   error
}

func (c *countingChooser) Choose(ctx context.Context, title string, exts []string) ([]string, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.StaticChooser.Choose(ctx, title, exts)
}

type fakeSnapshots struct{ taken []string }

func (s *fakeSnapshots) Capture(f model.TargetFile, stage model.Stage) (string, error) {
	s.taken = append(s.taken, f.Name())
	return "/snaps/" + f.Name() + "-" + string(stage) + ".png", nil
}

func writeFiles(t *testing.T, names ...string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte("data"), 0o644))
		paths = append(paths, p)
	}
	return dir, paths
}

type harness struct {
	cfg       *config.Config
	presence  *fakePresence
	chooser   *countingChooser
	dialogs   *operator.Scripted
	activator *fakeActivator
	processor *fakeProcessor
	snaps     *fakeSnapshots
	clock     *clock.Recorder
}

func newHarness(paths []string) *harness {
	return &harness{
		cfg:       config.Default(),
		presence:  &fakePresence{found: true},
		chooser:   &countingChooser{StaticChooser: operator.StaticChooser{Paths: paths}},
		dialogs:   &operator.Scripted{Answer: true},
		activator: &fakeActivator{ok: true},
		processor: &fakeProcessor{},
		snaps:     &fakeSnapshots{},
		clock:     &clock.Recorder{},
	}
}

func (h *harness) runner() *Runner {
	return New(h.cfg, Deps{
		Presence:  h.presence,
		Chooser:   h.chooser,
		Dialogs:   h.dialogs,
		Activator: h.activator,
		Processor: h.processor,
		Snapshots: h.snaps,
		Clock:     h.clock,
		Log:       logging.Discard(),
	})
}

func TestRun_TargetMissingHalts(t *testing.T) {
	_, paths := writeFiles(t, "a.mdp")
	h := newHarness(paths)
	h.presence.found = false

	r := h.runner()
	out, err := r.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ExitTargetMissing, out.Exit)
	assert.Nil(t, out.Report)
	assert.Equal(t, 1, h.dialogs.Count("error"))
	assert.Zero(t, h.chooser.calls)
	assert.Equal(t, Done, r.State())
}

func TestRun_AllSucceed(t *testing.T) {
	_, paths := writeFiles(t, "a.mdp", "b.mdp", "c.mdp")
	h := newHarness(paths)

	out, err := h.runner().Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ExitCompleted, out.Exit)
	require.NotNil(t, out.Report)
	assert.Equal(t, 3, out.Report.Succeeded)
	assert.Equal(t, []string{"a.mdp", "b.mdp", "c.mdp"}, h.processor.seen)
	assert.Equal(t, 1, h.activator.calls)
	assert.Equal(t, 1, h.dialogs.Count("info"))

	require.NotEmpty(t, h.clock.Sleeps)
	assert.Equal(t, h.cfg.Files.GraceDelay, h.clock.Sleeps[0])
	assert.Len(t, h.clock.Sleeps, 1+3, "grace delay plus one interval per file")
}

// File 2 of 3 fails at export; files 1 and 3 are still attempted.
func TestRun_FailureIsolated(t *testing.T) {
	_, paths := writeFiles(t, "1.mdp", "2.mdp", "3.mdp")
	h := newHarness(paths)
	h.processor.fail = map[string]model.Stage{"2.mdp": model.StageExport}

	out, err := h.runner().Run(context.Background())

	require.NoError(t, err)
	rep := out.Report
	require.NotNil(t, rep)
	assert.Equal(t, 2, rep.Succeeded)
	assert.Equal(t, 1, rep.Failed)
	failed := rep.FailedFiles()
	require.Len(t, failed, 1)
	assert.Equal(t, "2.mdp", failed[0].Name())
	assert.Equal(t, []string{"1.mdp", "2.mdp", "3.mdp"}, h.processor.seen)
	assert.Equal(t, []string{"2.mdp"}, h.snaps.taken)
	assert.Equal(t, "/snaps/2.mdp-export.png", rep.Results[1].Snapshot)
}

// Dry-run with three files: all succeed and no key event reaches the keyboard.
func TestRun_DryRunEndToEnd(t *testing.T) {
	_, paths := writeFiles(t, "a.mdp", "b.mdp", "c.mdp")
	cfg := config.Default()
	cfg.Debug.DryRun = true

	kb := &platformtest.Keyboard{}
	clip := &platformtest.Clipboard{Text: "x"}
	ws := &platformtest.WindowSystem{}
	q := &platformtest.WindowQuery{}
	rec := &clock.Recorder{}
	logger := logging.Discard()
	dialogs := &operator.Scripted{Answer: true}
	presence := &fakePresence{}

	in, err := input.New(kb, clip, rec, cfg.Input, logger)
	require.NoError(t, err)
	act := window.NewActivator(window.Strategies(ws, q, rec, cfg.Window, logger), cfg.Window, true, rec, logger)
	seq := sequence.New(in, act, dialogs, cfg, logger)
	snaps := &fakeSnapshots{}

	r := New(cfg, Deps{
		Presence:  presence,
		Chooser:   operator.StaticChooser{Paths: paths},
		Dialogs:   dialogs,
		Activator: act,
		Processor: seq,
		Snapshots: snaps,
		Clock:     rec,
		Log:       logger,
	})
	out, err := r.Run(context.Background())

	require.NoError(t, err)
	require.NotNil(t, out.Report)
	assert.True(t, out.Report.DryRun)
	assert.Equal(t, 3, out.Report.Succeeded)
	assert.Zero(t, out.Report.Failed)
	assert.Empty(t, kb.Events)
	assert.Empty(t, clip.Writes)
	assert.Zero(t, ws.EnumCalls)
	assert.Zero(t, q.FindCalls)
	assert.Zero(t, presence.calls, "dry-run skips the presence gate")
	assert.Empty(t, snaps.taken)
}

func TestRun_EmptySelection(t *testing.T) {
	h := newHarness(nil)
	out, err := h.runner().Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ExitNoFiles, out.Exit)
	assert.Zero(t, h.dialogs.Count("confirm"))
	assert.Zero(t, h.activator.calls)
}

func TestRun_OperatorDeclines(t *testing.T) {
	_, paths := writeFiles(t, "a.mdp")
	h := newHarness(paths)
	h.dialogs.Answer = false

	out, err := h.runner().Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ExitDeclined, out.Exit)
	assert.Zero(t, h.activator.calls)
	assert.Empty(t, h.clock.Sleeps)
}

func TestRun_ActivationFailureHalts(t *testing.T) {
	_, paths := writeFiles(t, "a.mdp")
	h := newHarness(paths)
	h.activator.ok = false

	out, err := h.runner().Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ExitActivationFailed, out.Exit)
	assert.Empty(t, h.processor.seen)
	assert.Equal(t, 1, h.dialogs.Count("error"))
}

func TestRun_InterruptedMidBatch(t *testing.T) {
	_, paths := writeFiles(t, "a.mdp", "b.mdp", "c.mdp")
	h := newHarness(paths)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.processor.onCall = func(n int) {
		if n == 2 {
			cancel()
		}
	}

	out, err := h.runner().Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, ExitInterrupted, out.Exit)
	require.NotNil(t, out.Report)
	assert.True(t, out.Report.Aborted)
	assert.Equal(t, 1, out.Report.Total())
	assert.Equal(t, []string{"a.mdp", "b.mdp"}, h.processor.seen)
	assert.Equal(t, 1, h.dialogs.Count("info"))
}

func TestRun_InterruptedDuringGraceDelay(t *testing.T) {
	_, paths := writeFiles(t, "a.mdp")
	h := newHarness(paths)
	ctx, cancel := context.WithCancel(context.Background())
	r := h.runner()
	// Cancel once the operator confirms.
	r.deps.Dialogs = confirmThen{Scripted: h.dialogs, after: cancel}

	out, err := r.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, ExitInterrupted, out.Exit)
	assert.Zero(t, h.activator.calls)
}

type confirmThen struct {
	*operator.Scripted
	after func()
}

func (c confirmThen) Confirm(title, msg string) (bool, error) {
	ok, err := c.Scripted.Confirm(title, msg)
	c.after()
	return ok, err
}

func TestRun_ChooserErrorIsReported(t *testing.T) {
	h := newHarness(nil)
	h.chooser.err = errors.New("dialog crashed")

	out, err := h.runner().Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, ExitError, out.Exit)
	assert.Equal(t, 1, h.dialogs.Count("error"))
}

func TestRun_ReportCountMatchesSelection(t *testing.T) {
	dir, _ := writeFiles(t, "a.mdp", "b.MDP", "notes.txt", "c.mdp")
	h := newHarness([]string{dir})
	h.cfg.Files.MaxPerSession = 2

	out, err := h.runner().Run(context.Background())

	require.NoError(t, err)
	require.NotNil(t, out.Report)
	assert.Equal(t, len(out.Selection.Files), out.Report.Total())
	assert.Equal(t, 2, out.Report.Total())
	assert.Equal(t, 1, out.Selection.Truncated)
}

func TestConfirmationMessage(t *testing.T) {
	cfg := config.Default()
	msg := ConfirmationMessage(4, cfg)
	assert.Contains(t, msg, "4 file(s)")
	assert.Contains(t, msg, "HZ-ANA")
	assert.Contains(t, msg, (3 * time.Second).String())
	assert.NotContains(t, msg, "DRY RUN")

	cfg.Debug.DryRun = true
	assert.Contains(t, ConfirmationMessage(1, cfg), "DRY RUN")
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "checking-presence", CheckingPresence.String())
	assert.Equal(t, "done", Done.String())
	assert.Equal(t, "state(42)", State(42).String())
}
