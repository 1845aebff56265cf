package typst

import (
	"strings"
	"unicode/utf8"
)

// escapeText makes text safe for markup mode. Line start sequences are
// handled separately by guardLineStart.
func escapeText(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/8)
	for i, r := range s {
		switch r {
		case '\\', '#', '*', '_', '@', '<', '>', '$', '~', '`', '[', ']':
			b.WriteByte('\\')
		case '/':
			// "//" and "/*" open comments
			if next, _ := utf8.DecodeRuneInString(s[i+1:]); next == '/' || next == '*' {
				b.WriteByte('\\')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

// escapeString escapes string literal contents.
func escapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// quote returns string literal.
func quote(s string) string {
	return `"` + escapeString(s) + `"`
}

// guardLineStart escapes markup which only has meaning at the beginning of a
// line: headings, list and term markers, numbered items.
func guardLineStart(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '-', '+', '/':
		return `\` + s
	}
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(s) && s[digits] == '.' {
		return s[:digits] + `\` + s[digits:]
	}
	return s
}
