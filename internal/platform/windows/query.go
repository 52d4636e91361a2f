//go:build windows

package windows

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mj1618/exportbot/internal/model"
)

const queryTimeout = 15 * time.Second

const findScript = `
$t = $env:EXPORTBOT_QUERY
Get-Process |
  Where-Object { $_.MainWindowHandle -ne 0 -and $_.MainWindowTitle.IndexOf($t, [StringComparison]::OrdinalIgnoreCase) -ge 0 } |
  Select-Object Id, @{n='Handle';e={[int64]$_.MainWindowHandle}}, MainWindowTitle |
  ConvertTo-Json -Compress
`

const activateScript = `
$ok = (New-Object -ComObject WScript.Shell).AppActivate([int]$env:EXPORTBOT_PID)
Write-Output $ok
`

// ShellQuery finds main windows through Get-Process and activates them with
// WScript.Shell.AppActivate, independently of the user32 calls.
type ShellQuery struct{}

func (q *ShellQuery) FindByTitle(title string) ([]model.Window, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	out, err := runPowerShell(ctx, findScript, false, map[string]string{"EXPORTBOT_QUERY": title})
	if err != nil {
		return nil, err
	}
	return parseProcessWindows(out)
}

func (q *ShellQuery) Activate(w model.Window) error {
	if w.PID == 0 {
		return fmt.Errorf("window %s has no process id", w.ID)
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	out, err := runPowerShell(ctx, activateScript, false, map[string]string{"EXPORTBOT_PID": strconv.Itoa(w.PID)})
	if err != nil {
		return err
	}
	if !strings.EqualFold(strings.TrimSpace(string(out)), "true") {
		return fmt.Errorf("AppActivate(%d) refused", w.PID)
	}
	return nil
}
