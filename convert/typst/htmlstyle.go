package typst

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/net/html"

	"mdprint/css"
)

var styleParser = css.NewParser(nil)

// typstColors maps CSS color keywords to Typst predefined colors.
var typstColors = map[string]string{
	"black": "black", "gray": "gray", "grey": "gray", "silver": "silver",
	"white": "white", "navy": "navy", "blue": "blue", "aqua": "aqua",
	"cyan": "aqua", "teal": "teal", "purple": "purple", "fuchsia": "fuchsia",
	"magenta": "fuchsia", "maroon": "maroon", "red": "red", "orange": "orange",
	"yellow": "yellow", "olive": "olive", "green": "green", "lime": "lime",
}

// elementStyle collects style attribute declarations, legacy color
// attribute is used when style does not set color.
func elementStyle(attrs []html.Attribute) css.Declarations {
	decls := css.Declarations{}
	var color string
	for _, a := range attrs {
		switch a.Key {
		case "style":
			decls = styleParser.ParseInline(a.Val)
		case "color":
			color = strings.TrimSpace(a.Val)
		}
	}
	if _, ok := decls["color"]; !ok && len(color) > 0 {
		decls["color"] = css.Value{Raw: color, Keyword: color}
	}
	return decls
}

func cssColor(v css.Value) (string, bool) {
	kw := strings.ToLower(strings.TrimSpace(v.Keyword))
	switch {
	case len(kw) == 0:
		return "", false
	case strings.HasPrefix(kw, "#"):
		c, err := colorful.Hex(expandHex(kw))
		if err != nil {
			return "", false
		}
		return rgb(c.Hex()), true
	case strings.HasPrefix(kw, "rgb(") || strings.HasPrefix(kw, "rgba("):
		args := strings.FieldsFunc(kw[strings.IndexByte(kw, '(')+1:], func(r rune) bool {
			return r == ',' || r == ' ' || r == ')' || r == '/'
		})
		if len(args) < 3 {
			return "", false
		}
		var c [3]int
		for i := range c {
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 0 || n > 255 {
				return "", false
			}
			c[i] = n
		}
		return fmt.Sprintf("rgb(%d, %d, %d)", c[0], c[1], c[2]), true
	}
	name, ok := typstColors[kw]
	return name, ok
}

func cssLength(v css.Value) (string, bool) {
	if v.Value <= 0 {
		return "", false
	}
	f := func(x float64, unit string) string {
		return strconv.FormatFloat(x, 'f', -1, 64) + unit
	}
	switch v.Unit {
	case "pt", "em", "mm", "cm", "in":
		return f(v.Value, v.Unit), true
	case "rem":
		return f(v.Value, "em"), true
	case "px":
		return f(v.Value*0.75, "pt"), true
	case "%":
		return f(v.Value/100, "em"), true
	}
	return "", false
}

// styleWrappers converts declarations into content function prefixes,
// outermost first. Every prefix is closed by single bracket. Alignment is
// only honored for block elements.
func styleWrappers(decls css.Declarations, block bool) []string {
	var out []string
	if v, ok := decls["text-align"]; ok && block {
		switch v.Keyword {
		case "left", "center", "right":
			out = append(out, "#align("+v.Keyword+")[")
		}
	}

	var args []string
	if v, ok := decls["color"]; ok {
		if c, ok := cssColor(v); ok {
			args = append(args, "fill: "+c)
		}
	}
	if v, ok := decls["font-weight"]; ok {
		switch {
		case v.Is("bold"), v.Is("bolder"):
			args = append(args, `weight: "bold"`)
		case len(v.Unit) == 0 && v.Value >= 100 && v.Value <= 900:
			args = append(args, "weight: "+strconv.Itoa(int(v.Value)))
		}
	}
	if v, ok := decls["font-style"]; ok && (v.Is("italic") || v.Is("oblique")) {
		args = append(args, `style: "italic"`)
	}
	if v, ok := decls["font-size"]; ok {
		if size, ok := cssLength(v); ok {
			args = append(args, "size: "+size)
		}
	}
	if len(args) > 0 {
		out = append(out, "#text("+strings.Join(args, ", ")+")[")
	}

	if v, ok := decls.Get("text-decoration-line", "text-decoration"); ok {
		if v.Has("underline") {
			out = append(out, "#underline[")
		}
		if v.Has("line-through") {
			out = append(out, "#strike[")
		}
		if v.Has("overline") {
			out = append(out, "#overline[")
		}
	}
	if v, ok := decls["font-variant"]; ok && v.Has("small-caps") {
		out = append(out, "#smallcaps[")
	}
	if v, ok := decls.Get("background-color", "background"); ok {
		if c, ok := cssColor(v); ok {
			out = append(out, "#highlight(fill: "+c+")[")
		}
	}
	return out
}

func wrap(prefixes []string, inner string) string {
	if len(prefixes) == 0 {
		return inner
	}
	return strings.Join(prefixes, "") + inner + strings.Repeat("]", len(prefixes))
}
