package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/exportbot/internal/output"
)

// KeyResult is the output of `key`.
type KeyResult struct {
	OK     bool   `yaml:"ok"               json:"ok"`
	Action string `yaml:"action"           json:"action"`
	Key    string `yaml:"key,omitempty"    json:"key,omitempty"`
	Count  int    `yaml:"count,omitempty"  json:"count,omitempty"`
	Text   string `yaml:"text,omitempty"   json:"text,omitempty"`
	DryRun bool   `yaml:"dry_run,omitempty" json:"dry_run,omitempty"`
}

var keyCmd = &cobra.Command{
	Use:   "key [combo]",
	Short: "Send one key combination or a clipboard paste",
	Long: `Send a key or combination the way a batch does, to calibrate the export
dialog navigation. With --activate the target window is brought forward first.

Examples:
  exportbot key alt+f --activate
  exportbot key tab --repeat 6
  exportbot key --paste "C:\data\run1.mdp"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runKey,
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.Flags().String("paste", "", "Paste this text through the clipboard instead of sending a key")
	keyCmd.Flags().Int("repeat", 1, "Press a single key this many times")
	keyCmd.Flags().Bool("activate", false, "Activate the target window first")
}

func runKey(cmd *cobra.Command, args []string) error {
	paste, _ := cmd.Flags().GetString("paste")
	repeat, _ := cmd.Flags().GetInt("repeat")
	activate, _ := cmd.Flags().GetBool("activate")

	if (len(args) == 0) == (paste == "") {
		return fmt.Errorf("specify either a key combination or --paste")
	}
	if repeat < 1 {
		return fmt.Errorf("--repeat must be at least 1, got %d", repeat)
	}

	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if activate && !sess.Activator.Activate(ctx, sess.Config.Window.Title) {
		return fmt.Errorf("could not activate a window matching %q", sess.Config.Window.Title)
	}

	res := KeyResult{OK: true, DryRun: sess.Config.Debug.DryRun}
	if paste != "" {
		res.Action = "paste"
		res.Text = paste
	} else {
		res.Action = "key"
		res.Key = args[0]
		res.Count = repeat
	}
	if res.DryRun {
		sess.Log.Info("[dry-run] skipping "+res.Action, "key", res.Key, "text", res.Text)
		return output.Print(res)
	}

	switch {
	case paste != "":
		err = sess.Input.PasteText(ctx, paste)
	case repeat > 1:
		err = sess.Input.PressN(ctx, args[0], repeat)
	default:
		err = sess.Input.Hotkey(ctx, args[0])
	}
	if err != nil {
		return err
	}
	return output.Print(res)
}
