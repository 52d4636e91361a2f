package operator

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// Terminal implements Dialogs and Chooser on the console with pterm.
type Terminal struct {
	// AssumeYes answers every confirmation with "yes" without prompting.
	AssumeYes bool
	Out       io.Writer
}

// NewTerminal returns a Terminal writing to stdout.
func NewTerminal(assumeYes bool) *Terminal {
	return &Terminal{AssumeYes: assumeYes, Out: os.Stdout}
}

func (t *Terminal) out() io.Writer {
	if t.Out == nil {
		return os.Stdout
	}
	return t.Out
}

func (t *Terminal) Confirm(title, message string) (bool, error) {
	if t.AssumeYes {
		pterm.Info.WithWriter(t.out()).Printfln("%s\n%s\n(confirmed by --yes)", title, message)
		return true, nil
	}
	pterm.Fprintln(t.out(), pterm.Bold.Sprint(title))
	pterm.Fprintln(t.out(), message)
	ok, err := pterm.DefaultInteractiveConfirm.
		WithDefaultText("Continue?").
		WithDefaultValue(false).
		Show()
	if err != nil {
		return false, fmt.Errorf("confirm prompt: %w", err)
	}
	return ok, nil
}

func (t *Terminal) Info(title, message string) error {
	pterm.Info.WithWriter(t.out()).Printfln("%s\n%s", title, message)
	return nil
}

func (t *Terminal) Error(title, message string) error {
	pterm.Error.WithWriter(t.out()).Printfln("%s\n%s", title, message)
	return nil
}

// Choose prompts for one or more paths separated by ";". Directories are
// accepted and expanded later by the batch selection stage.
func (t *Terminal) Choose(ctx context.Context, title string, extensions []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf("%s (%s, separate with ;)", title, strings.Join(extensions, " "))
	line, err := pterm.DefaultInteractiveTextInput.WithDefaultText(prompt).Show()
	if err != nil {
		return nil, fmt.Errorf("file prompt: %w", err)
	}
	return SplitPaths(line), nil
}

// SplitPaths splits a ";"-separated list, dropping blanks and surrounding quotes.
func SplitPaths(line string) []string {
	var paths []string
	for _, p := range strings.Split(line, ";") {
		p = strings.Trim(strings.TrimSpace(p), `"`)
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
