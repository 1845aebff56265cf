package config

import (
	"fmt"
	"strings"
)

// Paper is page size requested in configuration. Empty value leaves the
// choice to front matter and theme.
type Paper string

const (
	PaperDefault Paper = ""
	PaperA4      Paper = "a4"
	PaperA5      Paper = "a5"
	PaperLetter  Paper = "letter"
	PaperLegal   Paper = "legal"
)

var paperNames = []Paper{PaperA4, PaperA5, PaperLetter, PaperLegal}

// PaperNames returns list of known paper sizes.
func PaperNames() []string {
	out := make([]string, len(paperNames))
	for i, p := range paperNames {
		out[i] = string(p)
	}
	return out
}

func ParsePaper(name string) (Paper, error) {
	p := Paper(strings.ToLower(strings.TrimSpace(name)))
	if p == PaperDefault || p.IsValid() {
		return p, nil
	}
	return PaperDefault, fmt.Errorf("%s is not a valid Paper, try [%s]", name, strings.Join(PaperNames(), ", "))
}

func (p Paper) IsValid() bool {
	for _, n := range paperNames {
		if p == n {
			return true
		}
	}
	return false
}

func (p Paper) String() string {
	return string(p)
}

func (p Paper) MarshalText() ([]byte, error) {
	return []byte(p), nil
}

func (p *Paper) UnmarshalText(text []byte) error {
	v, err := ParsePaper(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
