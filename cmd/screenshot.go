package cmd

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/exportbot/internal/platform"
	"github.com/mj1618/exportbot/internal/snapshot"
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Capture the screen as PNG",
	Long:  "Capture the whole screen the way failure snapshots do, to check what the target application shows at a given step.",
	RunE:  runScreenshot,
}

func init() {
	rootCmd.AddCommand(screenshotCmd)
	screenshotCmd.Flags().String("output", "", "Output file path (default: stdout as base64)")
	screenshotCmd.Flags().Int("max-width", 0, "Scale down to at most this width (0 = snapshot.max_width)")
	screenshotCmd.Flags().String("caption", "", "Caption strip drawn under the image")
}

func runScreenshot(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	shot := sess.Provider.Screenshotter
	if shot == nil {
		return fmt.Errorf("screenshot: %w", platform.ErrBackendUnavailable)
	}

	out, _ := cmd.Flags().GetString("output")
	maxWidth, _ := cmd.Flags().GetInt("max-width")
	caption, _ := cmd.Flags().GetString("caption")
	if maxWidth == 0 {
		maxWidth = sess.Config.Snapshot.MaxWidth
	}

	img, err := shot.CaptureScreen()
	if err != nil {
		return err
	}
	img = snapshot.Scale(img, maxWidth)
	if caption != "" {
		img = snapshot.Caption(img, caption)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}

	// Output to file or stdout
	if out != "" {
		return os.WriteFile(out, buf.Bytes(), 0644)
	}

	// Default: write to stdout as base64 for easy agent consumption
	w := cmd.OutOrStdout()
	encoder := base64.NewEncoder(base64.StdEncoding, w)
	if _, err := encoder.Write(buf.Bytes()); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	fmt.Fprintln(w) // newline after base64
	return nil
}
