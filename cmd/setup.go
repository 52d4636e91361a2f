package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/exportbot/internal/app"
	"github.com/mj1618/exportbot/internal/config"
	"github.com/mj1618/exportbot/internal/logging"
	"github.com/mj1618/exportbot/internal/operator"
)

// configFlags maps command-line flags onto config keys. Only flags the user
// set are applied, so the config file and environment win over flag defaults.
var configFlags = map[string]string{
	"title":        "window.title",
	"verbose":      "debug.verbose",
	"dry-run":      "debug.dry_run",
	"snapshot-dir": "snapshot.dir",
	"max-files":    "files.max_per_session",
}

func flagOverrides(cmd *cobra.Command) map[string]any {
	overrides := make(map[string]any)
	for name, key := range configFlags {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		switch f.Value.Type() {
		case "bool":
			v, _ := cmd.Flags().GetBool(name)
			overrides[key] = v
		case "int":
			v, _ := cmd.Flags().GetInt(name)
			overrides[key] = v
		default:
			overrides[key] = f.Value.String()
		}
	}
	return overrides
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path, flagOverrides(cmd))
}

// assumeYes answers every confirmation with yes and forwards the rest.
type assumeYes struct {
	operator.Dialogs
}

func (assumeYes) Confirm(string, string) (bool, error) { return true, nil }

// newSession loads the config and wires every component against the OS
// backend. Without native dialogs the terminal is used.
func newSession(cmd *cobra.Command) (*app.Session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := logging.New(cmd.ErrOrStderr(), cfg.Debug.Verbose)

	provider, err := app.ResolveProvider(cfg, logger)
	if err != nil {
		return nil, err
	}

	yes, _ := cmd.Flags().GetBool("yes")
	var dialogs operator.Dialogs
	switch {
	case provider.Dialogs == nil:
		t := operator.NewTerminal(yes)
		t.Out = cmd.ErrOrStderr()
		dialogs = t
	case yes:
		dialogs = assumeYes{provider.Dialogs}
	default:
		dialogs = provider.Dialogs
	}

	return app.New(cfg, app.Options{Provider: provider, Dialogs: dialogs, Log: logger})
}
