//go:build windows

package windows

import (
	"github.com/mj1618/exportbot/internal/platform"
)

// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 is (HANDLE)(-4).
var dpiAwarenessPerMonitorV2 = ^uintptr(3)

func init() {
	platform.NewProviderFunc = newProvider
	platform.PrepareFunc = enablePerMonitorDPI
}

func newProvider() (*platform.Provider, error) {
	return &platform.Provider{
		Keyboard:      &Keyboard{},
		Clipboard:     &Clipboard{},
		Windows:       &WindowSystem{},
		Query:         &ShellQuery{},
		Screenshotter: &Screen{},
		Dialogs:       &MessageBoxes{},
		Chooser:       &FileDialog{},
	}, nil
}

// enablePerMonitorDPI makes screen captures use physical pixels. Older
// systems without the call keep the default awareness.
func enablePerMonitorDPI() error {
	if procSetProcessDpiAwarenessCtx.Find() != nil {
		return nil
	}
	// Fails harmlessly when awareness was already set by a manifest.
	procSetProcessDpiAwarenessCtx.Call(dpiAwarenessPerMonitorV2)
	return nil
}
