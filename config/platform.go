package config

import (
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// maxNameBytes leaves room for extension within common 255 byte limit.
const maxNameBytes = 240

// CleanFileName makes single output path segment safe: characters file
// system rejects and control characters are dropped, result is never hidden,
// relative or reserved and fits file name limits.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		if sym < ' ' || strings.ContainsRune(forbiddenNameChars, sym) {
			return -1
		}
		return sym
	}, in)
	out = trimName(strings.TrimLeft(out, ". "))
	if reservedName(out) {
		out = "_" + out
	}
	for len(out) > maxNameBytes {
		_, size := utf8.DecodeLastRuneInString(out)
		out = out[:len(out)-size]
	}
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}

// EnableColorOutput checks if colorized output is possible. NO_COLOR and
// dumb terminals turn colors off.
func EnableColorOutput(stream *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok || os.Getenv("TERM") == "dumb" {
		return false
	}
	if !term.IsTerminal(int(stream.Fd())) {
		return false
	}
	return enableVirtualTerminal(stream)
}
