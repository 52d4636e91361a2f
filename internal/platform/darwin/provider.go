//go:build darwin

package darwin

import "github.com/mj1618/exportbot/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return &platform.Provider{
			Keyboard:  Keyboard{},
			Clipboard: NewClipboard(),
			Query:     Query{},
			Dialogs:   Dialogs{},
			Chooser:   Chooser{},
		}, nil
	}
}
