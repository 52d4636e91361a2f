// Package batch runs a whole export session: presence gate, file selection,
// operator confirmation, activation, the per-file loop and the final report.
package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/mj1618/exportbot/internal/clock"
	"github.com/mj1618/exportbot/internal/config"
	"github.com/mj1618/exportbot/internal/model"
	"github.com/mj1618/exportbot/internal/operator"
)

// State is a step of a run.
type State int

const (
	Idle State = iota
	CheckingPresence
	SelectingFiles
	AwaitingConfirmation
	Activating
	Processing
	Reporting
	Done
)

var stateNames = [...]string{
	Idle:                 "idle",
	CheckingPresence:     "checking-presence",
	SelectingFiles:       "selecting-files",
	AwaitingConfirmation: "awaiting-confirmation",
	Activating:           "activating",
	Processing:           "processing",
	Reporting:            "reporting",
	Done:                 "done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Exit says why a run ended.
type Exit string

const (
	ExitCompleted        Exit = "completed"
	ExitTargetMissing    Exit = "target-missing"
	ExitNoFiles          Exit = "no-files"
	ExitDeclined         Exit = "declined"
	ExitActivationFailed Exit = "activation-failed"
	ExitInterrupted      Exit = "interrupted"
	ExitError            Exit = "error"
)

// Presence gates the run on the target application running.
type Presence interface {
	Exists(ctx context.Context, title string) bool
}

// Activator brings the target window to the foreground.
type Activator interface {
	Activate(ctx context.Context, title string) bool
}

// Processor runs the per-file sequence.
type Processor interface {
	ProcessFile(ctx context.Context, f model.TargetFile) model.ProcessingResult
}

// Snapshotter captures the screen after a failed file.
type Snapshotter interface {
	Capture(f model.TargetFile, stage model.Stage) (string, error)
}

// Deps are the collaborators of a Runner. Snapshots and Progress are optional.
type Deps struct {
	Presence  Presence
	Chooser   operator.Chooser
	Dialogs   operator.Dialogs
	Activator Activator
	Processor Processor
	Snapshots Snapshotter
	Clock     clock.Clock
	Log       *log.Logger
	// Progress is called after each file with its 1-based index.
	Progress func(i, total int, res model.ProcessingResult)
}

// Outcome describes a finished run. Report is nil when the run ended before
// processing started.
type Outcome struct {
	Exit      Exit               `yaml:"exit" json:"exit"`
	Selection *Selection         `yaml:"selection,omitempty" json:"selection,omitempty"`
	Report    *model.BatchReport `yaml:"report,omitempty" json:"report,omitempty"`
}

// Runner is single-use per run and not safe for concurrent use.
type Runner struct {
	cfg   *config.Config
	deps  Deps
	state State
}

// New returns a Runner in the Idle state.
func New(cfg *config.Config, deps Deps) *Runner {
	if deps.Clock == nil {
		deps.Clock = clock.Real{}
	}
	return &Runner{cfg: cfg, deps: deps}
}

// State returns the current state.
func (r *Runner) State() State { return r.state }

func (r *Runner) enter(s State) {
	r.deps.Log.Debug("batch state", "from", r.state, "to", s)
	r.state = s
}

// Run executes one session. Operator decisions, missing targets and
// interruption are reported through the Outcome, not as errors. An error is
// returned only for unexpected failures, after it has been shown to the operator.
func (r *Runner) Run(ctx context.Context) (Outcome, error) {
	out, err := r.run(ctx)
	if err != nil {
		out.Exit = ExitError
		r.deps.Log.Error("unexpected error", "err", err)
		r.alert("Error", fmt.Sprintf("An unexpected error occurred:\n%v", err))
	}
	r.enter(Done)
	return out, err
}

func (r *Runner) run(ctx context.Context) (Outcome, error) {
	cfg := r.cfg
	title := cfg.Window.Title
	dry := cfg.Debug.DryRun
	if dry {
		r.deps.Log.Info("dry-run mode: no input will be sent to the target application")
	}

	r.enter(CheckingPresence)
	switch {
	case dry:
		r.deps.Log.Info("[dry-run] skipping presence check")
	case r.deps.Presence.Exists(ctx, title):
		r.deps.Log.Info("target application found", "title", title)
	case interrupted(ctx):
		return r.abort(nil, nil), nil
	default:
		r.alert("Error", fmt.Sprintf("The %s window was not found.\nStart the application and run again.", title))
		return Outcome{Exit: ExitTargetMissing}, nil
	}

	r.enter(SelectingFiles)
	paths, err := r.deps.Chooser.Choose(ctx, "Select files to process", cfg.Files.Extensions)
	if err != nil {
		if interrupted(ctx) {
			return r.abort(nil, nil), nil
		}
		return Outcome{}, fmt.Errorf("choose files: %w", err)
	}
	sel := Select(paths, cfg.Files, r.deps.Log)
	if len(sel.Files) == 0 {
		r.deps.Log.Info("no files selected")
		return Outcome{Exit: ExitNoFiles, Selection: &sel}, nil
	}
	r.deps.Log.Info("files selected", "count", len(sel.Files))

	r.enter(AwaitingConfirmation)
	ok, err := r.deps.Dialogs.Confirm("Confirm processing", ConfirmationMessage(len(sel.Files), cfg))
	if err != nil {
		if interrupted(ctx) {
			return r.abort(&sel, nil), nil
		}
		r.deps.Log.Warn("confirmation dismissed", "err", err)
		ok = false
	}
	if !ok {
		r.deps.Log.Info("processing cancelled by operator")
		return Outcome{Exit: ExitDeclined, Selection: &sel}, nil
	}
	if err := r.deps.Clock.Sleep(ctx, cfg.Files.GraceDelay); err != nil {
		return r.abort(&sel, nil), nil
	}

	r.enter(Activating)
	if !r.deps.Activator.Activate(ctx, title) && !dry {
		if interrupted(ctx) {
			return r.abort(&sel, nil), nil
		}
		r.alert("Error", "Failed to activate the target window.")
		return Outcome{Exit: ExitActivationFailed, Selection: &sel}, nil
	}

	r.enter(Processing)
	report := &model.BatchReport{DryRun: dry}
	for i, f := range sel.Files {
		r.deps.Log.Info("progress", "file", i+1, "of", len(sel.Files))
		res := r.deps.Processor.ProcessFile(ctx, f)
		if interrupted(ctx) {
			return r.abort(&sel, report), nil
		}
		if !res.OK {
			r.deps.Log.Error("file failed", "file", f.Name(), "stage", res.Stage)
			res.Snapshot = r.snapshot(f, res.Stage)
		}
		report.Add(res)
		if r.deps.Progress != nil {
			r.deps.Progress(i+1, len(sel.Files), res)
		}
		if err := r.deps.Clock.Sleep(ctx, cfg.Files.ProcessInterval); err != nil {
			return r.abort(&sel, report), nil
		}
	}

	r.enter(Reporting)
	r.deps.Log.Info("processing finished", "succeeded", report.Succeeded, "failed", report.Failed)
	r.info("Processing complete", report.Summary())
	return Outcome{Exit: ExitCompleted, Selection: &sel, Report: report}, nil
}

// abort reports an interrupted run. Whatever was processed so far is kept.
func (r *Runner) abort(sel *Selection, report *model.BatchReport) Outcome {
	r.enter(Reporting)
	if report == nil {
		report = &model.BatchReport{DryRun: r.cfg.Debug.DryRun}
	}
	report.Aborted = true
	r.deps.Log.Warn("processing interrupted", "succeeded", report.Succeeded, "failed", report.Failed)
	r.info("Interrupted", report.Summary())
	return Outcome{Exit: ExitInterrupted, Selection: sel, Report: report}
}

func (r *Runner) snapshot(f model.TargetFile, stage model.Stage) string {
	if r.deps.Snapshots == nil || r.cfg.Debug.DryRun {
		return ""
	}
	path, err := r.deps.Snapshots.Capture(f, stage)
	if err != nil {
		r.deps.Log.Warn("snapshot failed", "err", err)
		return ""
	}
	return path
}

func (r *Runner) alert(title, msg string) {
	if err := r.deps.Dialogs.Error(title, msg); err != nil {
		r.deps.Log.Warn("error dialog failed", "err", err)
	}
}

func (r *Runner) info(title, msg string) {
	if err := r.deps.Dialogs.Info(title, msg); err != nil {
		r.deps.Log.Warn("info dialog failed", "err", err)
	}
}

func interrupted(ctx context.Context) bool {
	err := ctx.Err()
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ConfirmationMessage is the text shown before a run starts.
func ConfirmationMessage(n int, cfg *config.Config) string {
	msg := fmt.Sprintf("%d file(s) will be processed.\nStart processing?\n\n"+
		"Do not touch the mouse or keyboard while processing.\n"+
		"Processing starts %s after OK. Bring the %s window to the front before then.",
		n, cfg.Files.GraceDelay, cfg.Window.Title)
	if cfg.Debug.DryRun {
		msg += "\n\n[DRY RUN - no input will be sent]"
	}
	return msg
}
