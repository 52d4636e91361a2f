//go:build linux

package x11

import (
	"os"

	"github.com/mj1618/exportbot/internal/platform"
)

func init() {
	platform.NewProviderFunc = newProvider
}

// newProvider leaves Dialogs and Chooser nil; the terminal stands in for them.
func newProvider() (*platform.Provider, error) {
	if os.Getenv("DISPLAY") == "" {
		return nil, platform.ErrBackendUnavailable
	}
	c := &client{}
	return &platform.Provider{
		Keyboard:      Keyboard{},
		Clipboard:     Clipboard{},
		Windows:       &WindowSystem{c: c},
		Query:         Query{},
		Screenshotter: &Screen{c: c},
	}, nil
}
