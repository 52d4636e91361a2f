package windows

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mj1618/exportbot/internal/model"
)

type processWindow struct {
	ID              int    `json:"Id"`
	Handle          int64  `json:"Handle"`
	MainWindowTitle string `json:"MainWindowTitle"`
}

// parseProcessWindows decodes ConvertTo-Json output, which is a single
// object for one result, an array for several and empty for none.
func parseProcessWindows(out []byte) ([]model.Window, error) {
	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return nil, nil
	}
	var rows []processWindow
	if out[0] == '{' {
		var one processWindow
		if err := json.Unmarshal(out, &one); err != nil {
			return nil, fmt.Errorf("decode window list: %w", err)
		}
		rows = append(rows, one)
	} else if err := json.Unmarshal(out, &rows); err != nil {
		return nil, fmt.Errorf("decode window list: %w", err)
	}
	windows := make([]model.Window, 0, len(rows))
	for _, r := range rows {
		windows = append(windows, model.Window{
			ID:    model.WindowID(r.Handle),
			Title: r.MainWindowTitle,
			PID:   r.ID,
		})
	}
	return windows, nil
}

// fileFilter builds an OpenFileDialog filter string for the allowed extensions.
func fileFilter(exts []string) string {
	pats := make([]string, 0, len(exts))
	for _, e := range exts {
		pats = append(pats, "*"+e)
	}
	p := strings.Join(pats, ";")
	return fmt.Sprintf("Supported files (%s)|%s|All files (*.*)|*.*", strings.Join(pats, ", "), p)
}

// splitLines returns the non-blank lines of chooser output.
func splitLines(out []byte) []string {
	var lines []string
	for _, l := range strings.Split(string(out), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
