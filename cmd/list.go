package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/exportbot/internal/model"
	"github.com/mj1618/exportbot/internal/output"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List windows matching the target title",
	Long:  "List top-level windows whose title contains the configured title, with ID, PID and whether each is in the foreground. Use --all to list every window.",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("all", false, "List every top-level window")
}

func runList(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	all, _ := cmd.Flags().GetBool("all")

	windows, err := sess.ListWindows(sess.Config.Window.Title, all)
	if err != nil {
		return err
	}
	res := output.ListResult{Windows: windows}
	if !all {
		res.Title = sess.Config.Window.Title
	}
	if res.Windows == nil {
		res.Windows = []model.Window{}
	}
	return output.Print(res)
}
