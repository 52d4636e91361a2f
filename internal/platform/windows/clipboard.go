//go:build windows

package windows

import (
	"fmt"
	"time"
	"unsafe"

	winapi "golang.org/x/sys/windows"
)

// Clipboard reads and writes CF_UNICODETEXT.
type Clipboard struct{}

// openClipboard retries because another process may hold the clipboard briefly.
func openClipboard() error {
	var err error
	for i := 0; i < 10; i++ {
		r, _, e := procOpenClipboard.Call(0)
		if r != 0 {
			return nil
		}
		err = e
		time.Sleep(20 * time.Millisecond)
	}
	return fmt.Errorf("OpenClipboard: %w", err)
}

func (c *Clipboard) GetText() (string, error) {
	if err := openClipboard(); err != nil {
		return "", err
	}
	defer procCloseClipboard.Call()

	if r, _, _ := procIsClipboardFormatAvailable.Call(cfUnicodeText); r == 0 {
		return "", nil
	}
	h, _, err := procGetClipboardData.Call(cfUnicodeText)
	if h == 0 {
		return "", fmt.Errorf("GetClipboardData: %w", err)
	}
	p, _, err := procGlobalLock.Call(h)
	if p == 0 {
		return "", fmt.Errorf("GlobalLock: %w", err)
	}
	defer procGlobalUnlock.Call(h)
	return winapi.UTF16PtrToString((*uint16)(unsafe.Pointer(p))), nil
}

func (c *Clipboard) SetText(text string) error {
	data, err := winapi.UTF16FromString(text)
	if err != nil {
		return err
	}
	if err := openClipboard(); err != nil {
		return err
	}
	defer procCloseClipboard.Call()

	if r, _, err := procEmptyClipboard.Call(); r == 0 {
		return fmt.Errorf("EmptyClipboard: %w", err)
	}
	size := uintptr(len(data)) * unsafe.Sizeof(data[0])
	h, _, err := procGlobalAlloc.Call(gmemMoveable, size)
	if h == 0 {
		return fmt.Errorf("GlobalAlloc: %w", err)
	}
	p, _, err := procGlobalLock.Call(h)
	if p == 0 {
		procGlobalFree.Call(h)
		return fmt.Errorf("GlobalLock: %w", err)
	}
	copy(unsafe.Slice((*uint16)(unsafe.Pointer(p)), len(data)), data)
	procGlobalUnlock.Call(h)

	// The system owns the memory once SetClipboardData succeeds.
	if r, _, err := procSetClipboardData.Call(cfUnicodeText, h); r == 0 {
		procGlobalFree.Call(h)
		return fmt.Errorf("SetClipboardData: %w", err)
	}
	return nil
}
