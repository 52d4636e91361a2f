package model

import (
	"fmt"
	"strings"
)

// WindowID is an opaque OS-level window reference (HWND on Windows, XID on X11).
// It is only meaningful for the lifetime of the window and must not be cached
// across file iterations.
type WindowID uintptr

func (id WindowID) String() string {
	return fmt.Sprintf("0x%x", uintptr(id))
}

// Window is a top-level window as seen at discovery time.
type Window struct {
	ID      WindowID `yaml:"id"                json:"id"`
	Title   string   `yaml:"title"             json:"title"`
	PID     int      `yaml:"pid,omitempty"     json:"pid,omitempty"`
	Focused bool     `yaml:"focused,omitempty" json:"focused,omitempty"`
}

// TitleContains reports whether the window title contains sub, ignoring case.
func (w Window) TitleContains(sub string) bool {
	return strings.Contains(strings.ToLower(w.Title), strings.ToLower(sub))
}

// FirstMatch returns the first window whose title contains sub (case-insensitive).
// Enumeration order decides ties; no further disambiguation is attempted.
func FirstMatch(windows []Window, sub string) (Window, bool) {
	for _, w := range windows {
		if w.TitleContains(sub) {
			return w, true
		}
	}
	return Window{}, false
}

// FilterByTitle returns every window whose title contains sub (case-insensitive).
func FilterByTitle(windows []Window, sub string) []Window {
	var out []Window
	for _, w := range windows {
		if w.TitleContains(sub) {
			out = append(out, w)
		}
	}
	return out
}
