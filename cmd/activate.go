package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/exportbot/internal/output"
	"github.com/mj1618/exportbot/internal/window"
)

// ActivateResult is the output of `activate`.
type ActivateResult struct {
	Title         string `yaml:"title" json:"title"`
	window.Result `yaml:",inline"`
}

var activateCmd = &cobra.Command{
	Use:     "activate",
	Aliases: []string{"focus"},
	Short:   "Bring the target window to the foreground",
	Long:    "Run one activation call with the configured retries and print every attempt with the backend that served it.",
	RunE:    runActivate,
}

func init() {
	rootCmd.AddCommand(activateCmd)
}

func runActivate(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	title := sess.Config.Window.Title
	res := sess.Activator.ActivateDetailed(cmd.Context(), title)
	if err := output.Print(ActivateResult{Title: title, Result: res}); err != nil {
		return err
	}
	if !res.OK {
		return fmt.Errorf("could not activate a window matching %q", title)
	}
	return nil
}
