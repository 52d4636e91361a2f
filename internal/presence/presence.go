// Package presence decides whether the target application is running, from
// the process table first and visible window titles second.
package presence

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/mj1618/exportbot/internal/model"
	"github.com/mj1618/exportbot/internal/platform"
)

// Process is the part of a process record the checker reads.
type Process interface {
	Name(ctx context.Context) (string, error)
	Cmdline(ctx context.Context) (string, error)
}

// Lister snapshots the process table.
type Lister interface {
	Processes(ctx context.Context) ([]Process, error)
}

// WindowFinder lists windows matching a title substring.
type WindowFinder interface {
	FindByTitle(title string) ([]model.Window, error)
}

// Match describes where the target was found.
type Match struct {
	Found  bool          `yaml:"found" json:"found"`
	Source string        `yaml:"source,omitempty" json:"source,omitempty"` // "process" or "window"
	Detail string        `yaml:"detail,omitempty" json:"detail,omitempty"`
	Window *model.Window `yaml:"window,omitempty" json:"window,omitempty"`
}

// Checker combines a process Lister with an optional WindowFinder.
type Checker struct {
	procs   Lister
	windows WindowFinder
	log     *log.Logger
}

// New returns a Checker. Either source may be nil.
func New(procs Lister, windows WindowFinder, logger *log.Logger) *Checker {
	return &Checker{procs: procs, windows: windows, log: logger}
}

// Exists reports whether the target is running.
func (c *Checker) Exists(ctx context.Context, title string) bool {
	return c.Check(ctx, title).Found
}

// Check looks for a process whose name or command line contains title,
// case-insensitively, then for a visible window. Errors reading a single
// process are skipped; a failed listing falls through to the window search.
func (c *Checker) Check(ctx context.Context, title string) Match {
	needle := strings.ToLower(title)

	if c.procs != nil {
		procs, err := c.procs.Processes(ctx)
		if err != nil {
			c.log.Debug("process listing failed", "err", err)
		}
		for _, p := range procs {
			if ctx.Err() != nil {
				return Match{}
			}
			if name, err := p.Name(ctx); err == nil && strings.Contains(strings.ToLower(name), needle) {
				c.log.Debug("target process found", "name", name)
				return Match{Found: true, Source: "process", Detail: name}
			}
			if cmd, err := p.Cmdline(ctx); err == nil && strings.Contains(strings.ToLower(cmd), needle) {
				c.log.Debug("target process found", "cmdline", cmd)
				return Match{Found: true, Source: "process", Detail: cmd}
			}
		}
	}

	if c.windows != nil {
		windows, err := c.windows.FindByTitle(title)
		if err != nil {
			c.log.Debug("window search failed", "err", err)
		} else if len(windows) > 0 {
			w := windows[0]
			c.log.Debug("target window found", "title", w.Title)
			return Match{Found: true, Source: "window", Detail: w.Title, Window: &w}
		}
	}
	return Match{}
}

// Windows adapts a low-level WindowSystem to WindowFinder.
type Windows struct {
	WS platform.WindowSystem
}

func (w Windows) FindByTitle(title string) ([]model.Window, error) {
	all, err := w.WS.EnumWindows()
	if err != nil {
		return nil, err
	}
	return model.FilterByTitle(all, title), nil
}

// SystemProcesses lists OS processes with gopsutil. The current process and
// its parent are left out: their command lines usually carry the title, as in
// `exportbot run --title HZ-ANA`.
type SystemProcesses struct{}

func (SystemProcesses) Processes(ctx context.Context) ([]Process, error) {
	ps, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	skip := ownPIDs()
	out := make([]Process, 0, len(ps))
	for _, p := range ps {
		if skip[p.Pid] {
			continue
		}
		out = append(out, gopsProcess{p})
	}
	return out, nil
}

func ownPIDs() map[int32]bool {
	skip := map[int32]bool{int32(os.Getpid()): true}
	if ppid := os.Getppid(); ppid > 0 {
		skip[int32(ppid)] = true
	}
	return skip
}

type gopsProcess struct {
	p *process.Process
}

func (g gopsProcess) Name(ctx context.Context) (string, error) {
	return g.p.NameWithContext(ctx)
}

func (g gopsProcess) Cmdline(ctx context.Context) (string, error) {
	return g.p.CmdlineWithContext(ctx)
}
