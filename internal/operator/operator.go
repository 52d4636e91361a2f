// Package operator holds the human-facing side of a batch: choosing files,
// confirming the run and reading the final report.
package operator

import "context"

// Dialogs shows modal messages to the operator.
type Dialogs interface {
	// Confirm asks a yes/no question. A dismissed dialog counts as "no".
	Confirm(title, message string) (bool, error)
	Info(title, message string) error
	Error(title, message string) error
}

// Chooser asks the operator for input files. An empty result with a nil
// error means the operator cancelled.
type Chooser interface {
	Choose(ctx context.Context, title string, extensions []string) ([]string, error)
}

// StaticChooser returns a fixed list, typically paths from the command line.
type StaticChooser struct {
	Paths []string
}

// Choose returns a copy of the configured paths.
func (s StaticChooser) Choose(ctx context.Context, _ string, _ []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]string(nil), s.Paths...), nil
}
