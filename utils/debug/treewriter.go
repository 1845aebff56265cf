package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// TreeWriter renders indented human readable trees for debug dumps. Every
// level is indented by two spaces.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Node writes node name followed by key=value pairs. Pairs with empty or
// zero value are skipped, strings are quoted.
func (tw TreeWriter) Node(depth int, name string, kv ...any) {
	tw.indent(depth)
	tw.w.WriteString(name)
	for i := 0; i+1 < len(kv); i += 2 {
		key, value := fmt.Sprint(kv[i]), kv[i+1]
		var s string
		switch v := value.(type) {
		case string:
			if v == "" {
				continue
			}
			s = encodeText(v)
		case bool:
			if !v {
				continue
			}
			s = "true"
		case int:
			if v == 0 {
				continue
			}
			s = strconv.Itoa(v)
		default:
			s = fmt.Sprint(v)
		}
		tw.w.WriteByte(' ')
		tw.w.WriteString(key)
		tw.w.WriteByte('=')
		tw.w.WriteString(s)
	}
	tw.w.WriteByte('\n')
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
