package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/exportbot/internal/clock"
	"github.com/mj1618/exportbot/internal/output"
)

// WaitResult is the output of `wait`.
type WaitResult struct {
	OK       bool   `yaml:"ok"                  json:"ok"`
	Action   string `yaml:"action"              json:"action"`
	Title    string `yaml:"title"               json:"title"`
	Gone     bool   `yaml:"gone,omitempty"      json:"gone,omitempty"`
	Polls    int    `yaml:"polls"               json:"polls"`
	Elapsed  string `yaml:"elapsed"             json:"elapsed"`
	TimedOut bool   `yaml:"timed_out,omitempty" json:"timed_out,omitempty"`
}

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the target application to start or exit",
	Long: `Poll the presence check until the target application is running (or, with
--gone, no longer running) or the timeout is reached.

Example:
  exportbot wait --timeout 60 && exportbot run ./measurements`,
	RunE: runWait,
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().Bool("gone", false, "Invert: wait until the target is NO LONGER running")
	waitCmd.Flags().Int("timeout", 30, "Max seconds to wait")
	waitCmd.Flags().Int("interval", 500, "Polling interval in milliseconds")
}

func runWait(cmd *cobra.Command, args []string) error {
	gone, _ := cmd.Flags().GetBool("gone")
	timeoutSec, _ := cmd.Flags().GetInt("timeout")
	intervalMs, _ := cmd.Flags().GetInt("interval")
	if intervalMs <= 0 {
		return fmt.Errorf("--interval must be positive, got %d", intervalMs)
	}

	sess, err := newSession(cmd)
	if err != nil {
		return err
	}

	title := sess.Config.Window.Title
	start := time.Now()
	polls, met := pollUntil(cmd.Context(), sess.Clock,
		time.Duration(timeoutSec)*time.Second, time.Duration(intervalMs)*time.Millisecond,
		func(ctx context.Context) bool { return sess.Presence.Exists(ctx, title) != gone })

	res := WaitResult{
		OK:       met,
		Action:   "wait",
		Title:    title,
		Gone:     gone,
		Polls:    polls,
		Elapsed:  fmt.Sprintf("%.1fs", time.Since(start).Seconds()),
		TimedOut: !met && cmd.Context().Err() == nil,
	}
	// Print the result, then return an error for non-zero exit code
	if err := output.Print(res); err != nil {
		return err
	}
	if !met {
		return fmt.Errorf("timed out waiting for %q", title)
	}
	return nil
}

// pollUntil checks cond every interval until it holds, timeout worth of
// intervals has been slept, or ctx is done. interval must be positive. It returns the number of checks made.
func pollUntil(ctx context.Context, clk clock.Clock, timeout, interval time.Duration, cond func(context.Context) bool) (int, bool) {
	polls := 0
	var slept time.Duration
	for {
		polls++
		if cond(ctx) {
			return polls, true
		}
		if slept >= timeout || clk.Sleep(ctx, interval) != nil {
			return polls, false
		}
		slept += interval
	}
}
