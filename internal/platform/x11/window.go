//go:build linux

package x11

import (
	"fmt"

	"github.com/jezek/xgb/xproto"

	"github.com/mj1618/exportbot/internal/model"
)

const (
	iconicState = 3
	// Source indication 2 tells the window manager a pager asked, which
	// focus-stealing prevention honours.
	sourcePager = 2
)

// WindowSystem implements the low-level primitives over EWMH.
type WindowSystem struct {
	c *client
}

// EnumWindows lists managed windows with a title, in _NET_CLIENT_LIST order.
func (ws *WindowSystem) EnumWindows() ([]model.Window, error) {
	if err := ws.c.connect(); err != nil {
		return nil, err
	}
	data, err := ws.c.property(ws.c.root, ws.c.atoms["_NET_CLIENT_LIST"], xproto.AtomWindow, 4096)
	if err != nil {
		return nil, fmt.Errorf("read client list: %w", err)
	}
	active := ws.c.activeWindow()
	var out []model.Window
	for _, id := range words32(data) {
		w := xproto.Window(id)
		title := ws.c.windowName(w)
		if title == "" {
			continue
		}
		out = append(out, model.Window{
			ID:      model.WindowID(id),
			Title:   title,
			PID:     ws.c.windowPID(w),
			Focused: w == active,
		})
	}
	return out, nil
}

func (ws *WindowSystem) IsIconic(id model.WindowID) bool {
	if ws.c.connect() != nil {
		return false
	}
	w := xproto.Window(id)
	if data, err := ws.c.property(w, ws.c.atoms["WM_STATE"], ws.c.atoms["WM_STATE"], 1); err == nil && len(data) >= 4 {
		if words32(data)[0] == iconicState {
			return true
		}
	}
	data, err := ws.c.property(w, ws.c.atoms["_NET_WM_STATE"], xproto.AtomAtom, 32)
	if err != nil {
		return false
	}
	hidden := uint32(ws.c.atoms["_NET_WM_STATE_HIDDEN"])
	for _, a := range words32(data) {
		if a == hidden {
			return true
		}
	}
	return false
}

func (ws *WindowSystem) Restore(id model.WindowID) error {
	return ws.Show(id)
}

func (ws *WindowSystem) Show(id model.WindowID) error {
	if err := ws.c.connect(); err != nil {
		return err
	}
	return xproto.MapWindowChecked(ws.c.conn, xproto.Window(id)).Check()
}

// SetForeground asks the window manager to activate the window.
func (ws *WindowSystem) SetForeground(id model.WindowID) error {
	if err := ws.c.connect(); err != nil {
		return err
	}
	return ws.c.sendRootMessage(xproto.Window(id), ws.c.atoms["_NET_ACTIVE_WINDOW"], sourcePager, uint32(xproto.TimeCurrentTime), 0)
}

// BringToTop raises the window and gives it input focus directly.
func (ws *WindowSystem) BringToTop(id model.WindowID) error {
	if err := ws.c.connect(); err != nil {
		return err
	}
	w := xproto.Window(id)
	if err := xproto.ConfigureWindowChecked(ws.c.conn, w, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove}).Check(); err != nil {
		return fmt.Errorf("raise %s: %w", id, err)
	}
	return xproto.SetInputFocusChecked(ws.c.conn, xproto.InputFocusPointerRoot, w, xproto.TimeCurrentTime).Check()
}

func (ws *WindowSystem) Foreground() (model.WindowID, error) {
	if err := ws.c.connect(); err != nil {
		return 0, err
	}
	return model.WindowID(ws.c.activeWindow()), nil
}
