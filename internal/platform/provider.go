package platform

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/mj1618/exportbot/internal/operator"
)

// Provider bundles the backends for the current OS. Any field may be nil when
// the OS package cannot offer it.
type Provider struct {
	Keyboard      Keyboard
	Clipboard     Clipboard
	Windows       WindowSystem
	Query         WindowQuery
	Screenshotter Screenshotter
	Dialogs       operator.Dialogs
	Chooser       operator.Chooser
}

var (
	// ErrUnsupported is returned on platforms without a registered provider.
	ErrUnsupported = fmt.Errorf("exportbot is not supported on %s/%s; supported: windows, linux (X11), darwin", runtime.GOOS, runtime.GOARCH)

	// ErrWindowNotFound means no window matched the requested title.
	ErrWindowNotFound = errors.New("window not found")

	// ErrBackendUnavailable means a backend could not be initialized (missing
	// display, missing helper binary).
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/windows, internal/platform/x11 and internal/platform/darwin.
var NewProviderFunc func() (*Provider, error)

// PrepareFunc is set by platform-specific packages via init(). It performs
// one-time process setup (DPI awareness on Windows) before any backend call.
var PrepareFunc func() error

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	if PrepareFunc != nil {
		if err := PrepareFunc(); err != nil {
			return nil, fmt.Errorf("platform setup: %w", err)
		}
	}
	return NewProviderFunc()
}
