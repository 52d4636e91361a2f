//go:build darwin

package darwin

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/mj1618/exportbot/internal/model"
	"github.com/mj1618/exportbot/internal/platform"
)

// Keyboard sends keys through System Events.
type Keyboard struct{}

func (Keyboard) Press(key string) error {
	return Keyboard{}.Combo([]string{key})
}

func (Keyboard) Combo(keys []string) error {
	script, err := keyScript(keys)
	if err != nil {
		return err
	}
	_, err = osascript(toolTimeout, script)
	return err
}

// Query finds windows by title and activates their owning process.
type Query struct{}

func (Query) FindByTitle(title string) ([]model.Window, error) {
	out, err := osascript(toolTimeout, listWindowsScript)
	if err != nil {
		return nil, err
	}
	return model.FilterByTitle(parseWindowLines(out), title), nil
}

func (Query) Activate(w model.Window) error {
	if w.PID == 0 {
		return fmt.Errorf("window %q: %w", w.Title, platform.ErrWindowNotFound)
	}
	_, err := osascript(toolTimeout, activateScript, strconv.Itoa(w.PID))
	return err
}

// Dialogs shows blocking dialogs with `display dialog`.
type Dialogs struct{}

func (Dialogs) Confirm(title, message string) (bool, error) {
	_, err := osascript(0, dialogScript("caution", "Cancel", "OK"), title, message)
	if errors.Is(err, errUserCanceled) {
		return false, nil
	}
	return err == nil, err
}

func (Dialogs) Info(title, message string) error {
	return dismissed(osascript(0, dialogScript("note", "OK"), title, message))
}

func (Dialogs) Error(title, message string) error {
	return dismissed(osascript(0, dialogScript("stop", "OK"), title, message))
}

func dismissed(_ string, err error) error {
	if errors.Is(err, errUserCanceled) {
		return nil
	}
	return err
}

// Chooser shows the native multi-file chooser. Extension filtering is left to
// the selection step.
type Chooser struct{}

func (Chooser) Choose(ctx context.Context, title string, _ []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := osascript(0, chooseFilesScript, title)
	if errors.Is(err, errUserCanceled) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return splitPaths(out), nil
}
