// Package config holds the immutable runtime configuration for a batch run.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Config is loaded once at start-up and only read afterwards.
type Config struct {
	Window   WindowConfig   `mapstructure:"window"`
	Files    FilesConfig    `mapstructure:"files"`
	Export   ExportConfig   `mapstructure:"export"`
	Input    InputConfig    `mapstructure:"input"`
	Debug    DebugConfig    `mapstructure:"debug"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
}

// WindowConfig controls locating and activating the target window.
type WindowConfig struct {
	Title          string        `mapstructure:"title"`           // Title substring, case-insensitive
	ActivationWait time.Duration `mapstructure:"activation_wait"` // Settle after fallback activation
	RetryCount     int           `mapstructure:"retry_count"`     // Extra attempts after the first
	RetryInterval  time.Duration `mapstructure:"retry_interval"`
	PreferLowLevel bool          `mapstructure:"prefer_low_level"` // Try window enumeration before the query backend
	RestoreWait    time.Duration `mapstructure:"restore_wait"`     // Settle after un-minimizing
	VerifyWait     time.Duration `mapstructure:"verify_wait"`      // Settle before the foreground read-back
}

// FilesConfig controls selection and per-file pacing.
type FilesConfig struct {
	Extensions      []string      `mapstructure:"extensions"`
	MaxPerSession   int           `mapstructure:"max_per_session"` // 0 = unlimited
	PathSeparator   string        `mapstructure:"path_separator"`  // Separator the target's open dialog expects
	DialogWait      time.Duration `mapstructure:"dialog_wait"`
	FileOpenWait    time.Duration `mapstructure:"file_open_wait"`
	ExportWait      time.Duration `mapstructure:"export_wait"`
	ProcessInterval time.Duration `mapstructure:"process_interval"`
	DataResetWait   time.Duration `mapstructure:"data_reset_wait"`
	GraceDelay      time.Duration `mapstructure:"grace_delay"` // After the operator confirms, before the first activation
}

// ExportConfig encodes UI navigation distances of the export dialog.
type ExportConfig struct {
	TabCount       int           `mapstructure:"tab_count"`        // Tabs to reach the format list
	SelectionCount int           `mapstructure:"selection_count"`  // Space+Down pairs, one per format
	ButtonTabCount int           `mapstructure:"button_tab_count"` // Tabs from the format list to the write button
	OverwriteWait  time.Duration `mapstructure:"overwrite_wait"`
}

// InputConfig holds key bindings and event pacing.
type InputConfig struct {
	KeyInterval   time.Duration `mapstructure:"key_interval"`
	ClipboardWait time.Duration `mapstructure:"clipboard_wait"`
	PasteShortcut string        `mapstructure:"paste_shortcut"`
	FileMenuKey   string        `mapstructure:"file_menu_key"`
	ResetMenuKey  string        `mapstructure:"reset_menu_key"`
	OverwriteKey  string        `mapstructure:"overwrite_key"`
}

// DebugConfig holds the dry-run and verbosity switches.
type DebugConfig struct {
	Verbose bool `mapstructure:"verbose"`
	DryRun  bool `mapstructure:"dry_run"`
}

// SnapshotConfig controls failure screenshots. An empty Dir disables them.
type SnapshotConfig struct {
	Dir      string `mapstructure:"dir"`
	MaxWidth int    `mapstructure:"max_width"`
}

// pasteShortcut is the platform's usual paste combination.
func pasteShortcut(goos string) string {
	if goos == "darwin" {
		return "cmd+v"
	}
	return "ctrl+v"
}

// Default returns the configuration used when no file or override is present.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:          "HZ-ANA",
			ActivationWait: 300 * time.Millisecond,
			RetryCount:     2,
			RetryInterval:  500 * time.Millisecond,
			PreferLowLevel: true,
			RestoreWait:    200 * time.Millisecond,
			VerifyWait:     300 * time.Millisecond,
		},
		Files: FilesConfig{
			Extensions:      []string{".mdp"},
			MaxPerSession:   0,
			PathSeparator:   `\`,
			DialogWait:      1 * time.Second,
			FileOpenWait:    300 * time.Millisecond,
			ExportWait:      300 * time.Millisecond,
			ProcessInterval: 300 * time.Millisecond,
			DataResetWait:   500 * time.Millisecond,
			GraceDelay:      3 * time.Second,
		},
		Export: ExportConfig{
			TabCount:       6,
			SelectionCount: 3,
			ButtonTabCount: 10,
			OverwriteWait:  500 * time.Millisecond,
		},
		Input: InputConfig{
			KeyInterval:   30 * time.Millisecond,
			ClipboardWait: 50 * time.Millisecond,
			PasteShortcut: pasteShortcut(runtime.GOOS),
			FileMenuKey:   "f",
			ResetMenuKey:  "d",
			OverwriteKey:  "y",
		},
		Debug: DebugConfig{
			Verbose: true,
			DryRun:  false,
		},
		Snapshot: SnapshotConfig{
			Dir:      "",
			MaxWidth: 1280,
		},
	}
}

// Validate checks ranges and normalizes the extension list in place.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Window.Title) == "" {
		return fmt.Errorf("window.title cannot be empty")
	}
	if c.Window.RetryCount < 0 {
		return fmt.Errorf("window.retry_count cannot be negative, got %d", c.Window.RetryCount)
	}
	if c.Files.MaxPerSession < 0 {
		return fmt.Errorf("files.max_per_session cannot be negative, got %d", c.Files.MaxPerSession)
	}
	if c.Files.PathSeparator != `\` && c.Files.PathSeparator != "/" {
		return fmt.Errorf("files.path_separator must be \\ or /, got %q", c.Files.PathSeparator)
	}
	for name, n := range map[string]int{
		"export.tab_count":        c.Export.TabCount,
		"export.selection_count":  c.Export.SelectionCount,
		"export.button_tab_count": c.Export.ButtonTabCount,
		"snapshot.max_width":      c.Snapshot.MaxWidth,
	} {
		if n < 0 {
			return fmt.Errorf("%s cannot be negative, got %d", name, n)
		}
	}
	for key, d := range c.durations() {
		if d < 0 {
			return fmt.Errorf("%s cannot be negative, got %v", key, d)
		}
	}
	for name, k := range map[string]string{
		"input.paste_shortcut": c.Input.PasteShortcut,
		"input.file_menu_key":  c.Input.FileMenuKey,
		"input.reset_menu_key": c.Input.ResetMenuKey,
		"input.overwrite_key":  c.Input.OverwriteKey,
	} {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
	}

	exts := normalizeExtensions(c.Files.Extensions)
	if len(exts) == 0 {
		return fmt.Errorf("files.extensions must list at least one extension")
	}
	c.Files.Extensions = exts
	return nil
}

// Allowed reports whether ext (with leading dot, any case) is in the allow-set.
func (f FilesConfig) Allowed(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range f.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func normalizeExtensions(in []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range in {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

func (c *Config) durations() map[string]time.Duration {
	return map[string]time.Duration{
		"window.activation_wait": c.Window.ActivationWait,
		"window.retry_interval":  c.Window.RetryInterval,
		"window.restore_wait":    c.Window.RestoreWait,
		"window.verify_wait":     c.Window.VerifyWait,
		"files.dialog_wait":      c.Files.DialogWait,
		"files.file_open_wait":   c.Files.FileOpenWait,
		"files.export_wait":      c.Files.ExportWait,
		"files.process_interval": c.Files.ProcessInterval,
		"files.data_reset_wait":  c.Files.DataResetWait,
		"files.grace_delay":      c.Files.GraceDelay,
		"export.overwrite_wait":  c.Export.OverwriteWait,
		"input.key_interval":     c.Input.KeyInterval,
		"input.clipboard_wait":   c.Input.ClipboardWait,
	}
}
