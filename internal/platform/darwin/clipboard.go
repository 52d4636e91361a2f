//go:build darwin

package darwin

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Clipboard implements platform.Clipboard using pbcopy/pbpaste.
type Clipboard struct{}

// NewClipboard returns a new Clipboard instance.
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

// GetText reads the current text content from the system clipboard.
func (c *Clipboard) GetText() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), toolTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, "pbpaste").Output()
	if err != nil {
		return "", fmt.Errorf("pbpaste: %w", err)
	}
	return string(out), nil
}

// SetText writes text to the system clipboard.
func (c *Clipboard) SetText(text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), toolTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, "pbcopy")
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pbcopy: %w", err)
	}
	return nil
}
