// Package warnings defines non-fatal diagnostics produced while resolving
// themes and translating documents.
package warnings

import (
	"fmt"
	"sync"
)

// Kind names a warning variant.
type Kind string

const (
	KindImageNotFound                Kind = "image-not-found"
	KindFontNotAvailable             Kind = "font-not-available"
	KindUnknownLanguage              Kind = "unknown-language"
	KindUnrecognizedFrontMatterField Kind = "unrecognized-front-matter-field"
	KindContrastBelowMinimum         Kind = "contrast-below-minimum"
	KindRemoteImageSkipped           Kind = "remote-image-skipped"
)

// Warning is one of the variants below. The set is closed: isWarning is
// unexported so no other package can add variants.
type Warning interface {
	Kind() Kind
	String() string
	isWarning()
}

type ImageNotFound struct {
	Path string
}

type FontNotAvailable struct {
	Name     string
	Fallback string
}

type UnknownLanguage struct {
	Lang string
}

type UnrecognizedFrontMatterField struct {
	Field string
}

type ContrastBelowMinimum struct {
	Element string
	Ratio   float64
	Minimum float64
}

type RemoteImageSkipped struct {
	URL string
}

func (ImageNotFound) Kind() Kind                { return KindImageNotFound }
func (FontNotAvailable) Kind() Kind             { return KindFontNotAvailable }
func (UnknownLanguage) Kind() Kind              { return KindUnknownLanguage }
func (UnrecognizedFrontMatterField) Kind() Kind { return KindUnrecognizedFrontMatterField }
func (ContrastBelowMinimum) Kind() Kind         { return KindContrastBelowMinimum }
func (RemoteImageSkipped) Kind() Kind           { return KindRemoteImageSkipped }

func (ImageNotFound) isWarning()                {}
func (FontNotAvailable) isWarning()             {}
func (UnknownLanguage) isWarning()              {}
func (UnrecognizedFrontMatterField) isWarning() {}
func (ContrastBelowMinimum) isWarning()         {}
func (RemoteImageSkipped) isWarning()           {}

func (w ImageNotFound) String() string {
	return fmt.Sprintf("image '%s' not found, placeholder used", w.Path)
}

func (w FontNotAvailable) String() string {
	return fmt.Sprintf("font '%s' not available, falling back to '%s'", w.Name, w.Fallback)
}

func (w UnknownLanguage) String() string {
	return fmt.Sprintf("code block language '%s' not recognized for highlighting", w.Lang)
}

func (w UnrecognizedFrontMatterField) String() string {
	return fmt.Sprintf("unrecognized front matter field: '%s'", w.Field)
}

func (w ContrastBelowMinimum) String() string {
	return fmt.Sprintf("%s: contrast ratio %.2f:1 below minimum %.1f:1", w.Element, w.Ratio, w.Minimum)
}

func (w RemoteImageSkipped) String() string {
	return fmt.Sprintf("remote image skipped (remote resources are never fetched): %s", w.URL)
}

// Collector accumulates warnings in the order they were reported. Appending
// is safe from multiple goroutines, nothing is ever removed.
type Collector struct {
	mu       sync.Mutex
	warnings []Warning
}

func NewCollector() *Collector {
	return &Collector{}
}

// Add appends warning to the collector. Nil collector silently drops
// warnings so optional sinks do not have to be checked everywhere.
func (c *Collector) Add(w Warning) {
	if c == nil || w == nil {
		return
	}
	c.mu.Lock()
	c.warnings = append(c.warnings, w)
	c.mu.Unlock()
}

// Warnings returns a copy of everything collected so far.
func (c *Collector) Warnings() []Warning {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.warnings)
}

func (c *Collector) Empty() bool {
	return c.Len() == 0
}

// Count returns number of collected warnings of the given kind.
func (c *Collector) Count(kind Kind) int {
	n := 0
	for _, w := range c.Warnings() {
		if w.Kind() == kind {
			n++
		}
	}
	return n
}
