package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/exportbot/internal/output"
	"github.com/mj1618/exportbot/internal/platform"
)

// ClipboardReadResult is the output of `clipboard read`.
type ClipboardReadResult struct {
	OK     bool   `yaml:"ok"     json:"ok"`
	Action string `yaml:"action" json:"action"`
	Text   string `yaml:"text"   json:"text"`
}

// ClipboardWriteResult is the output of `clipboard write`.
type ClipboardWriteResult struct {
	OK     bool   `yaml:"ok"     json:"ok"`
	Action string `yaml:"action" json:"action"`
}

var clipboardCmd = &cobra.Command{
	Use:   "clipboard",
	Short: "Read or write the clipboard text the batch pastes through",
}

var clipboardReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the current clipboard text",
	RunE:  runClipboardRead,
}

var clipboardWriteCmd = &cobra.Command{
	Use:   "write [text]",
	Short: "Write text to the clipboard",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClipboardWrite,
}

func init() {
	rootCmd.AddCommand(clipboardCmd)
	clipboardCmd.AddCommand(clipboardReadCmd)
	clipboardCmd.AddCommand(clipboardWriteCmd)

	clipboardWriteCmd.Flags().String("text", "", "Text to write to the clipboard")
}

func clipboardBackend(cmd *cobra.Command) (platform.Clipboard, error) {
	sess, err := newSession(cmd)
	if err != nil {
		return nil, err
	}
	if sess.Provider.Clipboard == nil {
		return nil, fmt.Errorf("clipboard: %w", platform.ErrBackendUnavailable)
	}
	return sess.Provider.Clipboard, nil
}

func runClipboardRead(cmd *cobra.Command, args []string) error {
	cb, err := clipboardBackend(cmd)
	if err != nil {
		return err
	}
	text, err := cb.GetText()
	if err != nil {
		return fmt.Errorf("failed to read clipboard: %w", err)
	}
	return output.Print(ClipboardReadResult{OK: true, Action: "clipboard-read", Text: text})
}

func runClipboardWrite(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("text")
	if len(args) > 0 {
		text = args[0]
	}
	if text == "" {
		return fmt.Errorf("specify text as an argument or with --text")
	}
	cb, err := clipboardBackend(cmd)
	if err != nil {
		return err
	}
	if err := cb.SetText(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return output.Print(ClipboardWriteResult{OK: true, Action: "clipboard-write"})
}
