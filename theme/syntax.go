package theme

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// ResourcePath is logical path typesetting engine uses to load generated
// syntax theme.
const ResourcePath = "/__mdprint_theme.tmTheme"

type scopeMapping struct {
	token  string
	scopes []string
}

// tokenScopes maps token names to TextMate scope selectors. Order is fixed
// and defines order of entries in generated resource.
var tokenScopes = []scopeMapping{
	{"text", []string{"source"}},
	{"keyword", []string{
		"keyword", "keyword.control", "keyword.control.import", "keyword.control.flow",
		"keyword.control.conditional", "keyword.control.loop", "keyword.operator.word",
		"keyword.other", "storage.modifier", "storage.type.class", "storage.type.function",
		"storage.type.interface",
	}},
	{"string", []string{
		"string", "string.quoted", "string.quoted.double", "string.quoted.single",
		"string.quoted.template", "string.template", "string.interpolated", "string.regexp",
		"string.other.link",
	}},
	{"number", []string{
		"constant.numeric", "constant.numeric.integer", "constant.numeric.float", "constant.numeric.hex",
	}},
	{"function", []string{
		"entity.name.function", "support.function", "meta.function-call", "variable.function",
		"entity.name.function.decorator", "meta.annotation",
	}},
	{"type", []string{
		"entity.name.type", "entity.name.class", "entity.name.struct", "entity.name.enum",
		"entity.name.interface", "entity.name.trait", "entity.name.namespace", "entity.name.module",
		"support.type", "support.class", "storage.type",
	}},
	{"comment", []string{
		"comment", "comment.line", "comment.block", "comment.documentation",
		"comment.block.documentation", "comment.line.documentation",
	}},
	{"constant", []string{
		"constant", "constant.language", "constant.language.null", "constant.language.undefined",
	}},
	{"boolean", []string{"constant.language.boolean"}},
	{"operator", []string{
		"keyword.operator", "keyword.operator.logical", "keyword.operator.arithmetic",
		"keyword.operator.comparison", "keyword.operator.assignment", "keyword.operator.ternary",
	}},
	{"property", []string{
		"variable.other.property", "variable.other.object.property", "variable.other.member",
		"support.variable.property",
	}},
	{"tag", []string{
		"entity.name.tag", "entity.name.tag.html", "entity.name.tag.css", "entity.name.tag.yaml",
	}},
	{"attribute", []string{
		"entity.other.attribute-name", "entity.other.attribute-name.html", "entity.other.attribute-name.css",
	}},
	{"variable", []string{
		"variable", "variable.other", "variable.parameter", "variable.language",
		"variable.language.this", "variable.language.self", "variable.other.readwrite",
	}},
	{"builtin", []string{
		"support.function.builtin", "support.class.builtin", "support.constant", "support.variable",
	}},
	{"punctuation", []string{
		"punctuation", "punctuation.separator", "punctuation.terminator", "punctuation.accessor",
		"punctuation.definition", "punctuation.definition.string",
		"punctuation.definition.template-expression", "punctuation.section",
		"punctuation.section.braces", "punctuation.section.brackets", "punctuation.section.parens",
	}},
	{"escape", []string{
		"constant.character.escape", "constant.character", "constant.other.placeholder",
	}},
}

func fontStyle(s *SyntaxStyle) string {
	bold := s.Bold != nil && *s.Bold
	italic := s.Italic != nil && *s.Italic
	switch {
	case bold && italic:
		return "bold italic"
	case bold:
		return "bold"
	case italic:
		return "italic"
	}
	return ""
}

func addKeyValue(dict *etree.Element, key, value string) {
	dict.CreateElement("key").SetText(key)
	dict.CreateElement("string").SetText(value)
}

// generateTmTheme serializes resolved syntax styles as TextMate theme plist.
// Output depends only on its input.
func generateTmTheme(name string, syn *Syntax, fallbackBackground, fallbackForeground string) ([]byte, error) {
	background := syn.Background
	if len(background) == 0 {
		background = fallbackBackground
	}
	foreground := syn.Text.Color
	if len(foreground) == 0 {
		foreground = fallbackForeground
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateDirective(`DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd"`)

	plist := doc.CreateElement("plist")
	plist.CreateAttr("version", "1.0")
	root := plist.CreateElement("dict")
	addKeyValue(root, "name", name)
	root.CreateElement("key").SetText("settings")
	settings := root.CreateElement("array")

	global := settings.CreateElement("dict")
	global.CreateElement("key").SetText("settings")
	gs := global.CreateElement("dict")
	addKeyValue(gs, "background", background)
	addKeyValue(gs, "foreground", foreground)

	for _, m := range tokenScopes {
		style := syn.Token(m.token)
		if len(style.Color) == 0 {
			continue
		}
		entry := settings.CreateElement("dict")
		addKeyValue(entry, "name", m.token)
		addKeyValue(entry, "scope", strings.Join(m.scopes, ", "))
		entry.CreateElement("key").SetText("settings")
		es := entry.CreateElement("dict")
		addKeyValue(es, "foreground", style.Color)
		if fs := fontStyle(style); len(fs) > 0 {
			addKeyValue(es, "fontStyle", fs)
		}
	}

	doc.Indent(2)
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("unable to serialize syntax theme: %w", err)
	}
	return buf.Bytes(), nil
}
