//go:build windows

package windows

import (
	"fmt"
	"strings"
	"sync"
	"unsafe"

	winapi "golang.org/x/sys/windows"

	"github.com/mj1618/exportbot/internal/model"
)

// WindowSystem implements the low-level window primitives with user32.
type WindowSystem struct{}

func isWindowVisible(hwnd uintptr) bool {
	r, _, _ := procIsWindowVisible.Call(hwnd)
	return r != 0
}

func windowText(hwnd uintptr) string {
	l, _, _ := procGetWindowTextLengthW.Call(hwnd)
	if l == 0 {
		return ""
	}
	buf := make([]uint16, l+1)
	procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return winapi.UTF16ToString(buf)
}

func windowPID(hwnd uintptr) int {
	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	return int(pid)
}

// The runtime caps the number of callbacks a process can create, so one
// callback serves every enumeration, writing into enumState under enumMu.
var (
	enumMu       sync.Mutex
	enumState    enumResult
	enumCallback = winapi.NewCallback(enumWindowsProc)
)

type enumResult struct {
	foreground uintptr
	windows    []model.Window
}

func enumWindowsProc(hwnd uintptr, _ uintptr) uintptr {
	if !isWindowVisible(hwnd) {
		return 1
	}
	title := strings.TrimSpace(windowText(hwnd))
	if title == "" {
		return 1
	}
	enumState.windows = append(enumState.windows, model.Window{
		ID:      model.WindowID(hwnd),
		Title:   title,
		PID:     windowPID(hwnd),
		Focused: hwnd == enumState.foreground,
	})
	return 1
}

// EnumWindows lists visible, titled top-level windows in z-order.
func (w *WindowSystem) EnumWindows() ([]model.Window, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	fg, _, _ := procGetForegroundWindow.Call()
	enumState = enumResult{foreground: fg}
	r, _, err := procEnumWindows.Call(enumCallback, 0)
	out := enumState.windows
	enumState = enumResult{}
	if r == 0 {
		return nil, fmt.Errorf("EnumWindows: %w", err)
	}
	return out, nil
}

func (w *WindowSystem) IsIconic(id model.WindowID) bool {
	r, _, _ := procIsIconic.Call(uintptr(id))
	return r != 0
}

func (w *WindowSystem) Restore(id model.WindowID) error {
	procShowWindow.Call(uintptr(id), swRestore)
	return nil
}

// Show ignores the return value, which reports previous visibility rather than failure.
func (w *WindowSystem) Show(id model.WindowID) error {
	procShowWindow.Call(uintptr(id), swShow)
	return nil
}

func (w *WindowSystem) SetForeground(id model.WindowID) error {
	if r, _, err := procSetForegroundWindow.Call(uintptr(id)); r == 0 {
		return fmt.Errorf("SetForegroundWindow: %w", err)
	}
	return nil
}

func (w *WindowSystem) BringToTop(id model.WindowID) error {
	if r, _, err := procBringWindowToTop.Call(uintptr(id)); r == 0 {
		return fmt.Errorf("BringWindowToTop: %w", err)
	}
	return nil
}

func (w *WindowSystem) Foreground() (model.WindowID, error) {
	r, _, _ := procGetForegroundWindow.Call()
	return model.WindowID(r), nil
}
