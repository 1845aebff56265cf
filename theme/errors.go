package theme

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when theme identifier cannot be located in any
// of the sources.
type NotFoundError struct {
	Name        string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("theme '%s' not found", e.Name)
	}
	return fmt.Sprintf("theme '%s' not found, did you mean: %s", e.Name, strings.Join(e.Suggestions, ", "))
}

// Location points into theme source. Key is dotted path to the offending
// value ("colors.primary"), Line and Column are 1-based and only known for
// text parse errors.
type Location struct {
	Source string
	Key    string
	Line   int
	Column int
}

func (l Location) String() string {
	var b strings.Builder
	b.WriteString(l.Source)
	if l.Line > 0 {
		fmt.Fprintf(&b, ":%d:%d", l.Line, l.Column)
	}
	if len(l.Key) > 0 {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString("[" + l.Key + "]")
	}
	return b.String()
}

// InvalidError reports schema or validation failure.
type InvalidError struct {
	Location Location
	Message  string
	Err      error
}

func (e *InvalidError) Error() string {
	loc := e.Location.String()
	if len(loc) == 0 {
		return fmt.Sprintf("invalid theme: %s", e.Message)
	}
	return fmt.Sprintf("invalid theme %s: %s", loc, e.Message)
}

func (e *InvalidError) Unwrap() error {
	return e.Err
}

type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("theme inheritance cycle detected: %s", strings.Join(e.Chain, " -> "))
}

type InheritanceDepthError struct {
	Chain []string
	Max   int
}

func (e *InheritanceDepthError) Error() string {
	return fmt.Sprintf("theme inheritance depth exceeded (max %d themes in chain): %s", e.Max, strings.Join(e.Chain, " -> "))
}

// UnknownColorReferenceError is returned when color valued field is neither
// hex literal nor name from [colors] table.
type UnknownColorReferenceError struct {
	Field     string
	Reference string
}

func (e *UnknownColorReferenceError) Error() string {
	return fmt.Sprintf("unknown color reference '%s' in %s", e.Reference, e.Field)
}

// AliasChainTooDeepError is returned when [colors] entry refers to another
// entry which is an alias itself. Only single hop aliases are supported.
type AliasChainTooDeepError struct {
	Key   string
	Chain []string
}

func (e *AliasChainTooDeepError) Error() string {
	return fmt.Sprintf("color alias chain too deep for colors.%s: %s", e.Key, strings.Join(e.Chain, " -> "))
}

// FontExhaustedError is returned when no family of the fallback chain is
// available.
type FontExhaustedError struct {
	Role  string
	Tried []string
}

func (e *FontExhaustedError) Error() string {
	return fmt.Sprintf("no fonts available for '%s', all fallbacks exhausted: %s", e.Role, strings.Join(e.Tried, ", "))
}
