package cmd

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mj1618/exportbot/internal/app"
	"github.com/mj1618/exportbot/internal/model"
	"github.com/mj1618/exportbot/internal/operator"
	"github.com/mj1618/exportbot/internal/output"
)

var runCmd = &cobra.Command{
	Use:   "run [paths...]",
	Short: "Open and export a batch of files in the target application",
	Long: `Run a batch: check the target application is running, select files,
confirm with the operator, bring the target window forward and export every
file in order. A failed file is recorded and the batch moves on.

Paths may be files or directories; a directory contributes its files with an
allowed extension. Without paths the native file chooser is shown (or a
terminal prompt where none exists).

Examples:
  exportbot run C:\data\run1.mdp C:\data\run2.mdp
  exportbot run --dry-run ./measurements
  exportbot run --choose --snapshot-dir ./snaps`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("choose", false, "Show the file chooser even when paths are given")
	runCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	runCmd.Flags().String("snapshot-dir", "", "Save a screenshot of every failed file here (overrides snapshot.dir)")
	runCmd.Flags().Int("max-files", 0, "Process at most this many files (overrides files.max_per_session)")
}

func runRun(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	choose, _ := cmd.Flags().GetBool("choose")

	out, err := sess.Runner(chooser(sess, cmd, args, choose), progress(cmd.ErrOrStderr())).Run(cmd.Context())
	if err != nil {
		// Already shown to the operator; the run itself ended cleanly.
		sess.Log.Error("run ended with an error", "err", err)
	}

	if out.Report != nil && len(out.Report.Results) > 0 {
		table, err := output.ReportTable(out.Report)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), table)
	}
	return output.Print(out)
}

// chooser returns a static chooser for command-line paths, otherwise the
// native chooser, falling back to a terminal prompt.
func chooser(sess *app.Session, cmd *cobra.Command, args []string, choose bool) operator.Chooser {
	if len(args) > 0 && !choose {
		return operator.StaticChooser{Paths: args}
	}
	if sess.Provider.Chooser != nil {
		return sess.Provider.Chooser
	}
	t := operator.NewTerminal(false)
	t.Out = cmd.ErrOrStderr()
	return t
}

func progress(w io.Writer) func(i, total int, res model.ProcessingResult) {
	return func(i, total int, res model.ProcessingResult) {
		if res.OK {
			pterm.Success.WithWriter(w).Printfln("[%d/%d] %s", i, total, res.File.Name())
			return
		}
		pterm.Error.WithWriter(w).Printfln("[%d/%d] %s failed at %s", i, total, res.File.Name(), res.Stage)
	}
}
