// Package misc keeps build time information.
package misc

import (
	"path/filepath"
	"strings"
)

// Set by linker.
var (
	appName = "mdprint"
	version = "dev"
	gitHash = "unknown"
)

// GetAppName returns program name as used in logs and temporary file names.
func GetAppName() string {
	if n := strings.TrimSpace(appName); len(n) > 0 {
		return filepath.Base(n)
	}
	return "mdprint"
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
