package typst

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/lucasb-eyer/go-colorful"
)

// rgb returns color expression for resolved hex value, empty value means no
// paint.
func rgb(hex string) string {
	if len(hex) == 0 {
		return "none"
	}
	return `rgb("` + hex + `")`
}

// paint returns color expression with opacity applied, 1 is fully opaque.
func paint(hex string, opacity float64) string {
	if len(hex) == 0 || opacity <= 0 {
		return "none"
	}
	if opacity >= 1 {
		return rgb(hex)
	}
	return fmt.Sprintf("%s.transparentize(%s%%)", rgb(hex), strconv.FormatFloat((1-opacity)*100, 'f', 0, 64))
}

// stroke returns stroke expression, missing color disables stroke.
func stroke(width, hex string) string {
	if len(hex) == 0 {
		return "none"
	}
	return or(width, "0.5pt") + " + " + rgb(hex)
}

// fontList renders array of families. Single element arrays need trailing
// comma.
func fontList(families []string) string {
	quoted := make([]string, 0, len(families))
	for _, f := range families {
		quoted = append(quoted, quote(f))
	}
	if len(quoted) == 1 {
		return "(" + quoted[0] + ",)"
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}

// mute blends color towards background by nesting depth.
func mute(hex, background string, depth int) string {
	if depth <= 1 || len(hex) == 0 || len(background) == 0 {
		return hex
	}
	fg, err := colorful.Hex(expandHex(hex))
	if err != nil {
		return hex
	}
	bg, err := colorful.Hex(expandHex(background))
	if err != nil {
		return hex
	}
	return fg.BlendLab(bg, min(0.15*float64(depth-1), 0.6)).Clamped().Hex()
}

// expandHex returns #rrggbb form colorful can parse, alpha is dropped.
func expandHex(hex string) string {
	h := strings.TrimPrefix(hex, "#")
	switch len(h) {
	case 3, 4:
		return "#" + string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 8:
		return "#" + h[:6]
	}
	return "#" + h
}

// leading converts unitless line height into paragraph leading.
func leading(lineHeight float64) string {
	if lineHeight <= 1 {
		return "0.3em"
	}
	return strconv.FormatFloat(lineHeight-1, 'f', 2, 64) + "em"
}

func weight(w uint16, def uint16) string {
	if w == 0 {
		w = def
	}
	return strconv.Itoa(int(w))
}

// zeroLength reports whether length is empty or has zero magnitude.
func zeroLength(length string) bool {
	num := strings.TrimRightFunc(strings.TrimSpace(length), func(r rune) bool {
		return unicode.IsLetter(r) || r == '%'
	})
	if len(num) == 0 {
		return true
	}
	f, err := strconv.ParseFloat(num, 64)
	return err == nil && f == 0
}

func or(value, def string) string {
	if len(value) == 0 {
		return def
	}
	return value
}
