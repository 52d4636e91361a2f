package x11

import (
	"regexp"
	"strings"

	"github.com/mj1618/exportbot/internal/platform"
)

var keysyms = map[string]string{
	platform.KeyAlt:   "alt",
	platform.KeyCtrl:  "ctrl",
	platform.KeyShift: "shift",
	platform.KeyCmd:   "super",
	platform.KeyEnter: "Return",
	platform.KeyTab:   "Tab",
	platform.KeySpace: "space",
	platform.KeyUp:    "Up",
	platform.KeyDown:  "Down",
	platform.KeyLeft:  "Left",
	platform.KeyRight: "Right",
	platform.KeyEsc:   "Escape",
}

// keysym maps a canonical key name to the name xdotool expects. Letters and
// digits are their own keysyms.
func keysym(key string) string {
	if s, ok := keysyms[key]; ok {
		return s
	}
	return key
}

func comboKeysym(keys []string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = keysym(k)
	}
	return strings.Join(parts, "+")
}

// searchPattern escapes title for xdotool's case-insensitive extended regex.
func searchPattern(title string) string {
	return regexp.QuoteMeta(title)
}
