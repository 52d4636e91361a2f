package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/exportbot/internal/output"
	"github.com/mj1618/exportbot/internal/presence"
)

// CheckResult is the output of `check`.
type CheckResult struct {
	Title          string `yaml:"title" json:"title"`
	presence.Match `yaml:",inline"`
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether the target application is running",
	Long:  "Look for a process whose name or command line contains the window title, then for a window with that title. Exits non-zero when nothing matches.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	title := sess.Config.Window.Title
	m := sess.Presence.Check(cmd.Context(), title)
	if err := output.Print(CheckResult{Title: title, Match: m}); err != nil {
		return err
	}
	if !m.Found {
		return fmt.Errorf("%q is not running", title)
	}
	return nil
}
