//go:build windows

package windows

import (
	"context"
	"unsafe"

	winapi "golang.org/x/sys/windows"
)

// MessageBoxes shows topmost Win32 message boxes.
type MessageBoxes struct{}

func messageBox(title, text string, flags uintptr) (int, error) {
	t, err := winapi.UTF16PtrFromString(title)
	if err != nil {
		return 0, err
	}
	m, err := winapi.UTF16PtrFromString(text)
	if err != nil {
		return 0, err
	}
	r, _, callErr := procMessageBoxW.Call(0, uintptr(unsafe.Pointer(m)), uintptr(unsafe.Pointer(t)), flags|mbTopmost)
	if r == 0 {
		return 0, callErr
	}
	return int(r), nil
}

func (MessageBoxes) Confirm(title, message string) (bool, error) {
	r, err := messageBox(title, message, mbYesNo|mbIconQuestion)
	if err != nil {
		return false, err
	}
	return r == idYes, nil
}

func (MessageBoxes) Info(title, message string) error {
	_, err := messageBox(title, message, mbOK|mbIconInformation)
	return err
}

func (MessageBoxes) Error(title, message string) error {
	_, err := messageBox(title, message, mbOK|mbIconError)
	return err
}

const chooseScript = `
Add-Type -AssemblyName System.Windows.Forms
$d = New-Object System.Windows.Forms.OpenFileDialog
$d.Title = $env:EXPORTBOT_TITLE
$d.Filter = $env:EXPORTBOT_FILTER
$d.Multiselect = $true
if ($d.ShowDialog() -eq [System.Windows.Forms.DialogResult]::OK) { $d.FileNames | ForEach-Object { Write-Output $_ } }
`

// FileDialog is the native multi-select open dialog. Cancel yields no paths.
type FileDialog struct{}

func (FileDialog) Choose(ctx context.Context, title string, extensions []string) ([]string, error) {
	out, err := runPowerShell(ctx, chooseScript, true, map[string]string{
		"EXPORTBOT_TITLE":  title,
		"EXPORTBOT_FILTER": fileFilter(extensions),
	})
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}
