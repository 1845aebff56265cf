package theme

import (
	"regexp"
	"sort"
	"strings"
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// IsHex reports whether s is 3, 4, 6 or 8 digit hex color literal.
func IsHex(s string) bool {
	return hexColor.MatchString(s)
}

// resolveColorTable resolves aliases inside [colors]. Every entry is either
// hex literal or name of another entry holding hex literal. Keys are visited
// in sorted order so the first reported error is stable.
func resolveColorTable(table map[string]string, origin string) (map[string]string, error) {
	names := make([]string, 0, len(table))
	for k := range table {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make(map[string]string, len(table))
	for _, name := range names {
		v := strings.TrimSpace(table[name])
		if strings.HasPrefix(v, "#") {
			if !IsHex(v) {
				return nil, &InvalidError{
					Location: Location{Source: origin, Key: "colors." + name},
					Message:  "malformed hex color '" + v + "'",
				}
			}
			out[name] = v
			continue
		}
		target, ok := table[v]
		if !ok {
			return nil, &UnknownColorReferenceError{Field: "colors." + name, Reference: v}
		}
		target = strings.TrimSpace(target)
		if !strings.HasPrefix(target, "#") {
			return nil, &AliasChainTooDeepError{Key: name, Chain: []string{name, v, target}}
		}
		if !IsHex(target) {
			return nil, &InvalidError{
				Location: Location{Source: origin, Key: "colors." + v},
				Message:  "malformed hex color '" + target + "'",
			}
		}
		out[name] = target
	}
	return out, nil
}

// resolveColorRef turns color valued field into hex. Empty value means the
// field is unset and stays empty.
func resolveColorRef(field, value string, table map[string]string, origin string) (string, error) {
	v := strings.TrimSpace(value)
	switch {
	case len(v) == 0:
		return "", nil
	case strings.HasPrefix(v, "#"):
		if !IsHex(v) {
			return "", &InvalidError{
				Location: Location{Source: origin, Key: field},
				Message:  "malformed hex color '" + v + "'",
			}
		}
		return v, nil
	}
	if hex, ok := table[v]; ok {
		return hex, nil
	}
	return "", &UnknownColorReferenceError{Field: field, Reference: v}
}

type colorField struct {
	name string
	ptr  *string
}

// colorFields enumerates every color valued field outside of [colors].
// Order is fixed, it defines which error is reported first.
func colorFields(t *Tokens) []colorField {
	fields := []colorField{
		{"page.background", &t.Page.Background},
		{"text.color", &t.Text.Color},
		{"headings.color", &t.Headings.Color},
		{"code_block.background", &t.CodeBlock.Background},
		{"code_block.border_color", &t.CodeBlock.BorderColor},
		{"code_block.left_accent_color", &t.CodeBlock.LeftAccentColor},
		{"code_block.language_label_color", &t.CodeBlock.LanguageLabelColor},
		{"code_inline.background", &t.CodeInline.Background},
		{"code_inline.border_color", &t.CodeInline.BorderColor},
		{"blockquote.border_color", &t.Blockquote.BorderColor},
		{"blockquote.background", &t.Blockquote.Background},
		{"blockquote.text_color", &t.Blockquote.TextColor},
		{"table.header_background", &t.Table.HeaderBackground},
		{"table.header_border_color", &t.Table.HeaderBorderColor},
		{"table.row_border_color", &t.Table.RowBorderColor},
		{"table.stripe_background", &t.Table.StripeBackground},
		{"horizontal_rule.color", &t.HorizontalRule.Color},
		{"links.color", &t.Links.Color},
		{"images.caption_color", &t.Images.CaptionColor},
		{"list.bullet_color", &t.List.BulletColor},
		{"list.task_checked_color", &t.List.TaskCheckedColor},
		{"list.task_unchecked_color", &t.List.TaskUncheckedColor},
		{"footnotes.separator_color", &t.Footnotes.SeparatorColor},
		{"footnotes.number_color", &t.Footnotes.NumberColor},
		{"footnotes.backref_color", &t.Footnotes.BackrefColor},
		{"alerts.note_color", &t.Alerts.NoteColor},
		{"alerts.tip_color", &t.Alerts.TipColor},
		{"alerts.important_color", &t.Alerts.ImportantColor},
		{"alerts.warning_color", &t.Alerts.WarningColor},
		{"alerts.caution_color", &t.Alerts.CautionColor},
		{"toc.entry_color", &t.TOC.EntryColor},
		{"toc.page_number_color", &t.TOC.PageNumberColor},
		{"page_numbers.color", &t.PageNumbers.Color},
		{"title_page.title_color", &t.TitlePage.TitleColor},
		{"title_page.subtitle_color", &t.TitlePage.SubtitleColor},
		{"title_page.author_color", &t.TitlePage.AuthorColor},
		{"title_page.date_color", &t.TitlePage.DateColor},
		{"title_page.separator_color", &t.TitlePage.SeparatorColor},
		{"emphasis.strikethrough_color", &t.Emphasis.StrikethroughColor},
		{"math.color", &t.Math.Color},
		{"highlight.fill", &t.Highlight.Fill},
		{"highlight.text_color", &t.Highlight.TextColor},
		{"description_list.term_color", &t.DescriptionList.TermColor},
		{"syntax.background", &t.Syntax.Background},
		{"syntax.text.color", &t.Syntax.Text.Color},
	}
	for _, name := range SyntaxTokenNames {
		fields = append(fields, colorField{"syntax." + name + ".color", &t.Syntax.Token(name).Color})
	}
	return fields
}

// resolveColors runs both resolution phases in place. After it returns
// successfully no alias names are left anywhere in tokens.
func resolveColors(t *Tokens, origin string) error {
	table, err := resolveColorTable(t.Colors, origin)
	if err != nil {
		return err
	}
	for _, f := range colorFields(t) {
		hex, err := resolveColorRef(f.name, *f.ptr, table, origin)
		if err != nil {
			return err
		}
		*f.ptr = hex
	}
	t.Colors = table
	return nil
}
