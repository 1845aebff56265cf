//go:build !windows

package config

import "os"

const forbiddenNameChars = "/:"

func trimName(name string) string { return name }

func reservedName(string) bool { return false }

func enableVirtualTerminal(*os.File) bool { return true }
