//go:build linux

// Package x11 implements the platform backends on an X11 display: EWMH via
// xgb for the low-level window primitives and screen capture, xdotool for
// the higher-level query and key input, and xclip for the clipboard.
package x11

import (
	"encoding/binary"
	"fmt"
	"strings"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/mj1618/exportbot/internal/platform"
)

var atomNames = []string{
	"_NET_ACTIVE_WINDOW",
	"_NET_CLIENT_LIST",
	"_NET_WM_NAME",
	"_NET_WM_PID",
	"_NET_WM_STATE",
	"_NET_WM_STATE_HIDDEN",
	"WM_NAME",
	"WM_STATE",
	"UTF8_STRING",
}

// client is a connection to the X server with interned EWMH atoms. xgb
// connections are safe for concurrent use; mu only guards lazy setup.
type client struct {
	mu    sync.Mutex
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

func (c *client) connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return nil
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return fmt.Errorf("%w: connect to X display: %v", platform.ErrBackendUnavailable, err)
	}
	atoms := make(map[string]xproto.Atom, len(atomNames))
	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return fmt.Errorf("intern %s: %w", name, err)
		}
		atoms[name] = reply.Atom
	}
	c.conn = conn
	c.root = xproto.Setup(conn).DefaultScreen(conn).Root
	c.atoms = atoms
	return nil
}

func (c *client) property(w xproto.Window, atom, typ xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(c.conn, false, w, atom, typ, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

// words32 decodes a property holding a list of 32-bit window or atom ids.
func words32(data []byte) []uint32 {
	out := make([]uint32, 0, len(data)/4)
	for i := 0; i+4 <= len(data); i += 4 {
		out = append(out, binary.LittleEndian.Uint32(data[i:]))
	}
	return out
}

func (c *client) windowName(w xproto.Window) string {
	if data, err := c.property(w, c.atoms["_NET_WM_NAME"], c.atoms["UTF8_STRING"], 256); err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}
	if data, err := c.property(w, c.atoms["WM_NAME"], xproto.AtomString, 256); err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}
	return ""
}

func (c *client) windowPID(w xproto.Window) int {
	data, err := c.property(w, c.atoms["_NET_WM_PID"], xproto.AtomCardinal, 1)
	if err != nil || len(data) < 4 {
		return 0
	}
	return int(binary.LittleEndian.Uint32(data))
}

func (c *client) activeWindow() xproto.Window {
	data, err := c.property(c.root, c.atoms["_NET_ACTIVE_WINDOW"], xproto.AtomWindow, 1)
	if err != nil || len(data) < 4 {
		return 0
	}
	return xproto.Window(binary.LittleEndian.Uint32(data))
}

// sendRootMessage delivers an EWMH client message to the window manager.
func (c *client) sendRootMessage(w xproto.Window, typ xproto.Atom, data ...uint32) error {
	var d [5]uint32
	copy(d[:], data)
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: w,
		Type:   typ,
		Data:   xproto.ClientMessageDataUnionData32New(d[:]),
	}
	mask := uint32(xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify)
	return xproto.SendEventChecked(c.conn, false, c.root, mask, string(ev.Bytes())).Check()
}
