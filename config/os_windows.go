//go:build windows

package config

import (
	"os"
	"strings"

	"golang.org/x/sys/windows"
)

const forbiddenNameChars = `<>":/\|?*;`

// trimName drops trailing dots and spaces Windows silently removes.
func trimName(name string) string {
	return strings.TrimRight(name, ". ")
}

var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// reservedName reports device names which cannot be used even with
// extension.
func reservedName(name string) bool {
	base, _, _ := strings.Cut(name, ".")
	return reservedNames[strings.ToUpper(strings.TrimSpace(base))]
}

// enableVirtualTerminal turns on VT100 sequence processing in console.
func enableVirtualTerminal(stream *os.File) bool {
	h := windows.Handle(stream.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	if mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 {
		return true
	}
	return windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}
