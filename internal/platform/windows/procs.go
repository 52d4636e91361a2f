//go:build windows

// Package windows implements the platform backends on Win32 through
// golang.org/x/sys/windows, with PowerShell for the higher-level window
// query and the file chooser.
package windows

import (
	winapi "golang.org/x/sys/windows"
)

var (
	user32   = winapi.NewLazySystemDLL("user32.dll")
	kernel32 = winapi.NewLazySystemDLL("kernel32.dll")
	gdi32    = winapi.NewLazySystemDLL("gdi32.dll")

	procEnumWindows               = user32.NewProc("EnumWindows")
	procIsWindowVisible           = user32.NewProc("IsWindowVisible")
	procGetWindowTextW            = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW      = user32.NewProc("GetWindowTextLengthW")
	procGetWindowThreadProcessId  = user32.NewProc("GetWindowThreadProcessId")
	procIsIconic                  = user32.NewProc("IsIconic")
	procShowWindow                = user32.NewProc("ShowWindow")
	procSetForegroundWindow       = user32.NewProc("SetForegroundWindow")
	procBringWindowToTop          = user32.NewProc("BringWindowToTop")
	procGetForegroundWindow       = user32.NewProc("GetForegroundWindow")
	procSendInput                 = user32.NewProc("SendInput")
	procMessageBoxW               = user32.NewProc("MessageBoxW")
	procGetSystemMetrics          = user32.NewProc("GetSystemMetrics")
	procGetDC                     = user32.NewProc("GetDC")
	procReleaseDC                 = user32.NewProc("ReleaseDC")
	procSetProcessDpiAwarenessCtx = user32.NewProc("SetProcessDpiAwarenessContext")

	procOpenClipboard              = user32.NewProc("OpenClipboard")
	procCloseClipboard             = user32.NewProc("CloseClipboard")
	procEmptyClipboard             = user32.NewProc("EmptyClipboard")
	procGetClipboardData           = user32.NewProc("GetClipboardData")
	procSetClipboardData           = user32.NewProc("SetClipboardData")
	procIsClipboardFormatAvailable = user32.NewProc("IsClipboardFormatAvailable")

	procGlobalAlloc  = kernel32.NewProc("GlobalAlloc")
	procGlobalFree   = kernel32.NewProc("GlobalFree")
	procGlobalLock   = kernel32.NewProc("GlobalLock")
	procGlobalUnlock = kernel32.NewProc("GlobalUnlock")

	procCreateCompatibleDC = gdi32.NewProc("CreateCompatibleDC")
	procCreateDIBSection   = gdi32.NewProc("CreateDIBSection")
	procSelectObject       = gdi32.NewProc("SelectObject")
	procBitBlt             = gdi32.NewProc("BitBlt")
	procDeleteDC           = gdi32.NewProc("DeleteDC")
	procDeleteObject       = gdi32.NewProc("DeleteObject")
)

const (
	swShow    = 5
	swRestore = 9

	cfUnicodeText = 13
	gmemMoveable  = 0x0002

	mbOK              = 0x00000000
	mbYesNo           = 0x00000004
	mbIconError       = 0x00000010
	mbIconQuestion    = 0x00000020
	mbIconInformation = 0x00000040
	mbTopmost         = 0x00040000
	idYes             = 6
)
