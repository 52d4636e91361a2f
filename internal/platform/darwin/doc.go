// Package darwin provides macOS platform support through the system command
// line tools: pbcopy/pbpaste for the clipboard and osascript (System Events)
// for keys, window activation, dialogs and the file chooser. It needs no CGo.
// System Events requires the Accessibility permission for the terminal.
package darwin
