// Package platformtest provides in-memory platform backends for tests.
// Every fake records the calls it receives and never touches real devices.
package platformtest

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/mj1618/exportbot/internal/model"
	"github.com/mj1618/exportbot/internal/platform"
)

// ErrInjected is the error fakes return when told to fail.
var ErrInjected = errors.New("injected failure")

// Keyboard records key events as strings: "tab" for a press, "ctrl+v" for a combo.
type Keyboard struct {
	mu     sync.Mutex
	Events []string
	// FailOn makes the press or combo with this exact rendering fail.
	FailOn string
}

func (k *Keyboard) Press(key string) error {
	return k.record(key)
}

func (k *Keyboard) Combo(keys []string) error {
	return k.record(strings.Join(keys, "+"))
}

func (k *Keyboard) record(ev string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.FailOn != "" && ev == k.FailOn {
		return ErrInjected
	}
	k.Events = append(k.Events, ev)
	return nil
}

// Count returns how many times ev was recorded.
func (k *Keyboard) Count(ev string) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	n := 0
	for _, e := range k.Events {
		if e == ev {
			n++
		}
	}
	return n
}

// Clipboard is a text clipboard with a write history.
type Clipboard struct {
	mu      sync.Mutex
	Text    string
	Writes  []string
	FailGet bool
	FailSet bool
}

func (c *Clipboard) GetText() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailGet {
		return "", ErrInjected
	}
	return c.Text, nil
}

func (c *Clipboard) SetText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailSet {
		return ErrInjected
	}
	c.Text = text
	c.Writes = append(c.Writes, text)
	return nil
}

// WindowSystem is a scripted low-level window manager.
type WindowSystem struct {
	mu      sync.Mutex
	Windows []model.Window
	Iconic  map[model.WindowID]bool
	Active  model.WindowID
	// Stubborn windows never take focus from SetForeground or BringToTop.
	Stubborn map[model.WindowID]bool
	// FailEnum makes every EnumWindows call fail.
	FailEnum  bool
	FailSetFG bool
	EnumCalls int
	Calls     []string
}

func (w *WindowSystem) EnumWindows() ([]model.Window, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.EnumCalls++
	w.Calls = append(w.Calls, "enum")
	if w.FailEnum {
		return nil, ErrInjected
	}
	return append([]model.Window(nil), w.Windows...), nil
}

func (w *WindowSystem) IsIconic(id model.WindowID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.Iconic[id]
}

func (w *WindowSystem) Restore(id model.WindowID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Calls = append(w.Calls, "restore")
	delete(w.Iconic, id)
	return nil
}

func (w *WindowSystem) Show(id model.WindowID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Calls = append(w.Calls, "show")
	return nil
}

func (w *WindowSystem) SetForeground(id model.WindowID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Calls = append(w.Calls, "set-foreground")
	if w.FailSetFG {
		return ErrInjected
	}
	if !w.Stubborn[id] {
		w.Active = id
	}
	return nil
}

func (w *WindowSystem) BringToTop(id model.WindowID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Calls = append(w.Calls, "bring-to-top")
	if !w.Stubborn[id] {
		w.Active = id
	}
	return nil
}

func (w *WindowSystem) Foreground() (model.WindowID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.Active, nil
}

// WindowQuery is a scripted higher-level window backend.
type WindowQuery struct {
	mu      sync.Mutex
	Windows []model.Window
	// FailActivations makes the first n Activate calls fail.
	FailActivations int
	FindCalls       int
	Activated       []model.Window
}

func (q *WindowQuery) FindByTitle(title string) ([]model.Window, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.FindCalls++
	return model.FilterByTitle(q.Windows, title), nil
}

func (q *WindowQuery) Activate(w model.Window) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.FailActivations > 0 {
		q.FailActivations--
		return ErrInjected
	}
	q.Activated = append(q.Activated, w)
	return nil
}

// Screenshotter returns a solid image of the configured size.
type Screenshotter struct {
	Width, Height int
	Fail          bool
	Captures      int
}

func (s *Screenshotter) CaptureScreen() (image.Image, error) {
	s.Captures++
	if s.Fail {
		return nil, ErrInjected
	}
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 80, B: 160, A: 255})
		}
	}
	return img, nil
}

var (
	_ platform.Keyboard      = (*Keyboard)(nil)
	_ platform.Clipboard     = (*Clipboard)(nil)
	_ platform.WindowSystem  = (*WindowSystem)(nil)
	_ platform.WindowQuery   = (*WindowQuery)(nil)
	_ platform.Screenshotter = (*Screenshotter)(nil)
)
