//go:build linux

package x11

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/mj1618/exportbot/internal/model"
	"github.com/mj1618/exportbot/internal/platform"
)

const toolTimeout = 10 * time.Second

func run(stdin string, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), toolTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, toolError(name, args, err, stderr.String())
	}
	return out, nil
}

// runDetached runs a tool that may leave a child behind, as xclip -i does to
// keep owning the selection. The child would inherit any stdout or stderr
// pipe and hold Wait open, so neither is captured.
func runDetached(stdin string, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(context.Background(), toolTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.WaitDelay = time.Second
	if err := cmd.Run(); err != nil {
		return toolError(name, args, err, "")
	}
	return nil
}

func toolError(name string, args []string, err error, stderr string) error {
	if _, lookErr := exec.LookPath(name); lookErr != nil {
		return fmt.Errorf("%w: %s not installed", platform.ErrBackendUnavailable, name)
	}
	if stderr = strings.TrimSpace(stderr); stderr != "" {
		return fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, stderr)
	}
	return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
}

// Keyboard sends keys with xdotool.
type Keyboard struct{}

func (Keyboard) Press(key string) error {
	_, err := run("", "xdotool", "key", "--clearmodifiers", keysym(key))
	return err
}

func (Keyboard) Combo(keys []string) error {
	_, err := run("", "xdotool", "key", "--clearmodifiers", comboKeysym(keys))
	return err
}

// Clipboard uses the CLIPBOARD selection through xclip.
type Clipboard struct{}

func (Clipboard) GetText() (string, error) {
	out, err := run("", "xclip", "-selection", "clipboard", "-o")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (Clipboard) SetText(text string) error {
	args := []string{"-selection", "clipboard", "-i"}
	if text == "" {
		// xclip reads nothing from an empty stdin; /dev/null clears the selection.
		args = []string{"-selection", "clipboard", "-i", "/dev/null"}
	}
	return runDetached(text, "xclip", args...)
}

// Query finds and activates windows with xdotool, independently of the
// EWMH calls in WindowSystem.
type Query struct{}

func (Query) FindByTitle(title string) ([]model.Window, error) {
	out, err := run("", "xdotool", "search", "--onlyvisible", "--name", searchPattern(title))
	if err != nil {
		// xdotool exits 1 when nothing matches.
		if strings.Contains(err.Error(), "exit status 1") {
			return nil, nil
		}
		return nil, err
	}
	var windows []model.Window
	for _, line := range strings.Fields(string(out)) {
		id, err := strconv.ParseUint(line, 10, 64)
		if err != nil {
			continue
		}
		name, err := run("", "xdotool", "getwindowname", line)
		if err != nil {
			continue
		}
		w := model.Window{ID: model.WindowID(id), Title: strings.TrimSpace(string(name))}
		if pid, err := run("", "xdotool", "getwindowpid", line); err == nil {
			w.PID, _ = strconv.Atoi(strings.TrimSpace(string(pid)))
		}
		windows = append(windows, w)
	}
	return windows, nil
}

func (Query) Activate(w model.Window) error {
	_, err := run("", "xdotool", "windowactivate", strconv.FormatUint(uint64(w.ID), 10))
	return err
}
