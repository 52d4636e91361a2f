package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. EXPORTBOT_WINDOW_TITLE.
const EnvPrefix = "EXPORTBOT"

// Load reads configuration from path (or the default search locations when
// path is empty), applies EXPORTBOT_* environment variables, then overrides,
// which are keyed by dotted setting name (e.g. "debug.dry_run").
// A missing file is only an error when path was given explicitly.
func Load(path string, overrides map[string]any) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, dir := range searchDirs() {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, errors.Wrap(err, "failed to read config")
		}
	}

	for key, val := range overrides {
		v.Set(key, val)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// DefaultPath is where `config init` writes when no --config is given.
func DefaultPath() (string, error) {
	dirs := searchDirs()
	if len(dirs) == 0 {
		return "", errors.New("cannot determine config directory")
	}
	return filepath.Join(dirs[0], "config.yaml"), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, val := range Default().Settings() {
		v.SetDefault(key, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func searchDirs() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "exportbot"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "exportbot"))
	}
	return dirs
}

// Settings flattens the config into dotted keys, the same keys viper and the
// environment use.
func (c *Config) Settings() map[string]any {
	s := map[string]any{
		"window.title":            c.Window.Title,
		"window.retry_count":      c.Window.RetryCount,
		"window.prefer_low_level": c.Window.PreferLowLevel,
		"files.extensions":        c.Files.Extensions,
		"files.max_per_session":   c.Files.MaxPerSession,
		"files.path_separator":    c.Files.PathSeparator,
		"export.tab_count":        c.Export.TabCount,
		"export.selection_count":  c.Export.SelectionCount,
		"export.button_tab_count": c.Export.ButtonTabCount,
		"input.paste_shortcut":    c.Input.PasteShortcut,
		"input.file_menu_key":     c.Input.FileMenuKey,
		"input.reset_menu_key":    c.Input.ResetMenuKey,
		"input.overwrite_key":     c.Input.OverwriteKey,
		"debug.verbose":           c.Debug.Verbose,
		"debug.dry_run":           c.Debug.DryRun,
		"snapshot.dir":            c.Snapshot.Dir,
		"snapshot.max_width":      c.Snapshot.MaxWidth,
	}
	for key, d := range c.durations() {
		s[key] = d
	}
	return s
}

// YAML renders the config as a nested YAML document with durations written
// as Go duration strings ("300ms"), the form Load accepts back.
func (c *Config) YAML() ([]byte, error) {
	sections := make(map[string]map[string]any)
	for key, val := range c.Settings() {
		section, name, _ := strings.Cut(key, ".")
		if sections[section] == nil {
			sections[section] = make(map[string]any)
		}
		if d, ok := val.(time.Duration); ok {
			val = d.String()
		}
		sections[section][name] = val
	}

	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, section := range sortedKeys(sections) {
		body := &yaml.Node{Kind: yaml.MappingNode}
		for _, name := range sortedKeys(sections[section]) {
			var val yaml.Node
			if err := val.Encode(sections[section][name]); err != nil {
				return nil, errors.Wrapf(err, "encode %s.%s", section, name)
			}
			body.Content = append(body.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: name}, &val)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: section}, body)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "marshal config")
	}
	return out, nil
}

// WriteSample writes the default configuration to path unless a file exists.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Errorf("config file already exists: %s", path)
	}
	data, err := Default().YAML()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config")
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
