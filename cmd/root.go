package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/exportbot/internal/output"
	"github.com/mj1618/exportbot/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "exportbot",
	Short: "Drive a desktop analysis application to export data files",
	Long: `exportbot opens each selected data file in the target desktop application
and walks its export dialog with synthesized keystrokes, then reports which
files succeeded and which failed.

Keep the target application open and do not touch mouse or keyboard while a
batch runs.`,
	SilenceUsage: true,
}

// Execute runs the root command with ctx, which is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default $XDG_CONFIG_HOME/exportbot/config.yaml)")
	pf.String("format", "yaml", "Output format: yaml, json")
	pf.Bool("pretty", false, "Pretty-print JSON output")
	pf.Bool("verbose", false, "Log at debug level (overrides debug.verbose)")
	pf.Bool("dry-run", false, "Log every step without sending input or touching windows")
	pf.String("title", "", "Target window title substring (overrides window.title)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Use the root persistent flag directly to avoid conflicts with
		// subcommand local flags.
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		output.Out = cmd.OutOrStdout()
		return nil
	}
}
