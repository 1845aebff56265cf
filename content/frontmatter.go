package content

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// FrontMatter is document metadata found in leading YAML block. Every field
// is optional, pointers distinguish "not set" from zero values.
type FrontMatter struct {
	Title     string  `yaml:"title"`
	Subtitle  string  `yaml:"subtitle"`
	Authors   Authors `yaml:"author"`
	Date      string  `yaml:"date"`
	Lang      string  `yaml:"lang"`
	Theme     string  `yaml:"theme"`
	Paper     string  `yaml:"paper"`
	TOC       *bool   `yaml:"toc"`
	TOCDepth  *int    `yaml:"toc-depth"`
	Numbering string  `yaml:"numbering"`
	FontSize  string  `yaml:"font-size"`
}

// knownFields must follow yaml tags of FrontMatter.
var knownFields = []string{
	"title", "subtitle", "author", "date", "lang", "theme", "paper", "toc",
	"toc-depth", "numbering", "font-size",
}

// Authors accepts either single name or list of names.
type Authors []string

func (a *Authors) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		if s = strings.TrimSpace(s); len(s) > 0 {
			*a = Authors{s}
		}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		out := make(Authors, 0, len(list))
		for _, s := range list {
			if s = strings.TrimSpace(s); len(s) > 0 {
				out = append(out, s)
			}
		}
		*a = out
		return nil
	default:
		return fmt.Errorf("line %d: author must be a string or a list of strings", value.Line)
	}
}

// String joins author names for display.
func (a Authors) String() string {
	return strings.Join(a, ", ")
}

// Language returns parsed language tag, ok is false when lang is not set or
// is not a valid BCP 47 tag.
func (fm *FrontMatter) Language() (language.Tag, bool) {
	if fm == nil || len(fm.Lang) == 0 {
		return language.Und, false
	}
	tag, err := language.Parse(fm.Lang)
	if err != nil {
		return language.Und, false
	}
	return tag, true
}

// parseFrontMatter decodes raw YAML. Returned list contains names of
// unrecognized top level fields, sorted.
func parseFrontMatter(raw string) (*FrontMatter, []string, error) {
	fm := &FrontMatter{}
	if len(strings.TrimSpace(raw)) == 0 {
		return fm, nil, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &root); err != nil {
		return nil, nil, fmt.Errorf("unable to parse front matter: %w", err)
	}
	if len(root.Content) == 0 {
		return fm, nil, nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("front matter must be a mapping, line %d", doc.Line)
	}

	var unknown []string
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key := doc.Content[i].Value
		if !slices.Contains(knownFields, key) {
			unknown = append(unknown, key)
		}
	}
	slices.Sort(unknown)

	if err := doc.Decode(fm); err != nil {
		return nil, nil, fmt.Errorf("unable to decode front matter: %w", err)
	}
	if fm.TOCDepth != nil && (*fm.TOCDepth < 1 || *fm.TOCDepth > 6) {
		return nil, nil, fmt.Errorf("front matter toc-depth must be between 1 and 6, got %d", *fm.TOCDepth)
	}
	fm.Paper = strings.ToLower(strings.TrimSpace(fm.Paper))
	return fm, unknown, nil
}
