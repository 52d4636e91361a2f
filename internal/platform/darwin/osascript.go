//go:build darwin

package darwin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/mj1618/exportbot/internal/platform"
)

const toolTimeout = 10 * time.Second

// errUserCanceled is AppleScript error -128, raised when a dialog is dismissed.
var errUserCanceled = errors.New("user canceled")

// osascript runs script with args passed to its run handler. A zero timeout
// means no limit, for dialogs that wait on the operator.
func osascript(timeout time.Duration, script string, args ...string) (string, error) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, "osascript", append([]string{"-e", script}, args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(msg, "(-128)") {
			return "", errUserCanceled
		}
		if _, lookErr := exec.LookPath("osascript"); lookErr != nil {
			return "", fmt.Errorf("%w: osascript not found", platform.ErrBackendUnavailable)
		}
		return "", fmt.Errorf("osascript: %w: %s", err, msg)
	}
	return strings.TrimRight(string(out), "\n"), nil
}
