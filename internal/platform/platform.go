package platform

import (
	"image"

	"github.com/mj1618/exportbot/internal/model"
)

// Keyboard synthesizes key events to whichever window currently has focus.
// Key names are the canonical names from ParseCombo.
type Keyboard interface {
	Press(key string) error
	Combo(keys []string) error
}

// Clipboard reads and writes the system clipboard as text.
type Clipboard interface {
	GetText() (string, error)
	SetText(text string) error
}

// WindowSystem is the low-level window-manager backend: raw enumeration and
// individual focus primitives, composed into forced activation by the caller.
type WindowSystem interface {
	// EnumWindows returns visible top-level windows in enumeration order.
	EnumWindows() ([]model.Window, error)
	IsIconic(id model.WindowID) bool
	Restore(id model.WindowID) error
	Show(id model.WindowID) error
	SetForeground(id model.WindowID) error
	BringToTop(id model.WindowID) error
	// Foreground returns the window that currently receives keyboard input.
	Foreground() (model.WindowID, error)
}

// WindowQuery is the higher-level backend: it finds windows by title and
// activates them with its own policy, without exposing focus primitives.
type WindowQuery interface {
	FindByTitle(title string) ([]model.Window, error)
	Activate(w model.Window) error
}

// Screenshotter captures the whole screen.
type Screenshotter interface {
	CaptureScreen() (image.Image, error)
}
