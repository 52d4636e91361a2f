package platform

import (
	"fmt"
	"strings"
)

// Canonical key names understood by every Keyboard implementation.
const (
	KeyAlt   = "alt"
	KeyCtrl  = "ctrl"
	KeyShift = "shift"
	KeyCmd   = "cmd"
	KeyEnter = "enter"
	KeyTab   = "tab"
	KeySpace = "space"
	KeyUp    = "up"
	KeyDown  = "down"
	KeyLeft  = "left"
	KeyRight = "right"
	KeyEsc   = "esc"
)

var keyAliases = map[string]string{
	"control": KeyCtrl,
	"return":  KeyEnter,
	"escape":  KeyEsc,
	"menu":    KeyAlt,
	"command": KeyCmd,
	"super":   KeyCmd,
	"win":     KeyCmd,
}

var namedKeys = map[string]bool{
	KeyAlt: true, KeyCtrl: true, KeyShift: true, KeyCmd: true, KeyEnter: true, KeyTab: true,
	KeySpace: true, KeyUp: true, KeyDown: true, KeyLeft: true, KeyRight: true, KeyEsc: true,
}

// NormalizeKey maps a key name to its canonical form: a named key or a
// single letter/digit.
func NormalizeKey(s string) (string, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	if alias, ok := keyAliases[k]; ok {
		k = alias
	}
	if namedKeys[k] {
		return k, nil
	}
	if len(k) == 1 && ((k[0] >= 'a' && k[0] <= 'z') || (k[0] >= '0' && k[0] <= '9')) {
		return k, nil
	}
	return "", fmt.Errorf("unknown key: %q", s)
}

// ParseCombo parses "ctrl+v" style combinations into canonical key names.
func ParseCombo(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty key combination")
	}
	parts := strings.Split(s, "+")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		k, err := NormalizeKey(p)
		if err != nil {
			return nil, fmt.Errorf("invalid combination %q: %w", s, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// IsModifier reports whether key is held rather than tapped in a combination.
func IsModifier(key string) bool {
	return key == KeyAlt || key == KeyCtrl || key == KeyShift || key == KeyCmd
}
