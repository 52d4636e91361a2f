//go:build windows

package windows

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"unicode/utf16"
)

const utf8Prelude = "[Console]::OutputEncoding = [Text.Encoding]::UTF8\n"

// runPowerShell runs script with -EncodedCommand. Values are passed through
// env rather than interpolated, so titles and paths never need quoting.
func runPowerShell(ctx context.Context, script string, sta bool, env map[string]string) ([]byte, error) {
	args := []string{"-NoProfile", "-NonInteractive", "-ExecutionPolicy", "Bypass"}
	if sta {
		args = append(args, "-STA")
	}
	args = append(args, "-EncodedCommand", encodeCommand(utf8Prelude+script))

	cmd := exec.CommandContext(ctx, "powershell.exe", args...)
	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("powershell: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// encodeCommand produces the base64 UTF-16LE form -EncodedCommand expects.
func encodeCommand(script string) string {
	u := utf16.Encode([]rune(script))
	b := make([]byte, 2*len(u))
	for i, c := range u {
		b[2*i] = byte(c)
		b[2*i+1] = byte(c >> 8)
	}
	return base64.StdEncoding.EncodeToString(b)
}
