package darwin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mj1618/exportbot/internal/model"
	"github.com/mj1618/exportbot/internal/platform"
)

// Virtual key codes System Events accepts for `key code`.
var keyCodes = map[string]int{
	platform.KeyEnter: 36,
	platform.KeyTab:   48,
	platform.KeySpace: 49,
	platform.KeyEsc:   53,
	platform.KeyLeft:  123,
	platform.KeyRight: 124,
	platform.KeyDown:  125,
	platform.KeyUp:    126,
}

var modifiers = map[string]string{
	platform.KeyAlt:   "option down",
	platform.KeyCtrl:  "control down",
	platform.KeyShift: "shift down",
	platform.KeyCmd:   "command down",
}

// keyScript builds the System Events statement pressing keys together. The
// last key is the one struck; the others must be modifiers. ctrl maps to
// control and cmd to command.
func keyScript(keys []string) (string, error) {
	if len(keys) == 0 {
		return "", fmt.Errorf("no keys")
	}
	var using []string
	for _, k := range keys[:len(keys)-1] {
		m, ok := modifiers[k]
		if !ok {
			return "", fmt.Errorf("%s is not a modifier", k)
		}
		using = append(using, m)
	}

	key := keys[len(keys)-1]
	var stroke string
	switch {
	case keyCodes[key] != 0:
		stroke = "key code " + strconv.Itoa(keyCodes[key])
	case len(key) == 1:
		stroke = "keystroke " + strconv.Quote(key)
	default:
		return "", fmt.Errorf("key %q cannot be struck on its own", key)
	}
	if len(using) > 0 {
		stroke += " using {" + strings.Join(using, ", ") + "}"
	}
	return `tell application "System Events" to ` + stroke, nil
}

// listWindowsScript prints one "pid<TAB>title" line per window of every
// foreground process.
const listWindowsScript = `set out to ""
tell application "System Events"
	repeat with p in (every process whose background only is false)
		set pid to unix id of p
		repeat with w in (every window of p)
			set out to out & pid & tab & (name of w) & linefeed
		end repeat
	end repeat
end tell
return out`

// activateScript raises the process with the pid given as the first argument.
const activateScript = `on run argv
	tell application "System Events"
		set frontmost of (first process whose unix id is (item 1 of argv as integer)) to true
	end tell
end run`

// dialogScript shows a message; the first argument is the title, the second
// the message. Cancel raises error -128.
func dialogScript(icon string, buttons ...string) string {
	quoted := make([]string, len(buttons))
	for i, b := range buttons {
		quoted[i] = strconv.Quote(b)
	}
	return fmt.Sprintf(`on run argv
	display dialog (item 2 of argv) with title (item 1 of argv) buttons {%s} default button %s with icon %s
end run`, strings.Join(quoted, ", "), quoted[len(quoted)-1], icon)
}

// chooseFilesScript lets the operator pick several files and prints their
// POSIX paths one per line. The prompt is the first argument.
const chooseFilesScript = `on run argv
	set picked to choose file with prompt (item 1 of argv) with multiple selections allowed
	set out to ""
	repeat with f in picked
		set out to out & (POSIX path of f) & linefeed
	end repeat
	return out
end run`

// parseWindowLines decodes listWindowsScript output. IDs are positional;
// activation goes through the pid.
func parseWindowLines(out string) []model.Window {
	var windows []model.Window
	for _, line := range strings.Split(out, "\n") {
		pidText, title, ok := strings.Cut(strings.TrimRight(line, "\r"), "\t")
		if !ok || strings.TrimSpace(title) == "" {
			continue
		}
		pid, err := strconv.Atoi(strings.TrimSpace(pidText))
		if err != nil {
			continue
		}
		windows = append(windows, model.Window{
			ID:    model.WindowID(len(windows) + 1),
			Title: title,
			PID:   pid,
		})
	}
	return windows
}

// splitPaths splits chooser output into paths, dropping blank lines.
func splitPaths(out string) []string {
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paths = append(paths, line)
		}
	}
	return paths
}
