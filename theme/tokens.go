package theme

// RequiredSections lists top level sections every merged theme must carry.
// [syntax] is not required, missing token tables are substituted from the
// base syntax theme matching the variant.
var RequiredSections = []string{
	"meta", "colors", "fonts", "font_sizes", "page", "text", "headings",
	"code_block", "code_inline", "blockquote", "table", "horizontal_rule",
	"links", "images", "list", "footnotes", "alerts", "toc", "page_numbers",
	"title_page", "emphasis", "math", "highlight", "description_list",
}

// SyntaxTokenNames is fixed set of highlightable token types in table order.
var SyntaxTokenNames = []string{
	"keyword", "string", "number", "function", "type", "comment", "constant",
	"boolean", "operator", "property", "tag", "attribute", "variable",
	"builtin", "punctuation", "escape",
}

// Tokens is the typed form of a merged theme.
type Tokens struct {
	Meta            Meta              `mapstructure:"meta" yaml:"meta"`
	Colors          map[string]string `mapstructure:"colors" yaml:"colors"`
	Fonts           Fonts             `mapstructure:"fonts" yaml:"fonts"`
	FontSizes       FontSizes         `mapstructure:"font_sizes" yaml:"font_sizes"`
	Page            Page              `mapstructure:"page" yaml:"page"`
	Text            Text              `mapstructure:"text" yaml:"text"`
	Headings        Headings          `mapstructure:"headings" yaml:"headings"`
	CodeBlock       CodeBlock         `mapstructure:"code_block" yaml:"code_block"`
	CodeInline      CodeInline        `mapstructure:"code_inline" yaml:"code_inline"`
	Blockquote      Blockquote        `mapstructure:"blockquote" yaml:"blockquote"`
	Table           Table             `mapstructure:"table" yaml:"table"`
	HorizontalRule  HorizontalRule    `mapstructure:"horizontal_rule" yaml:"horizontal_rule"`
	Links           Links             `mapstructure:"links" yaml:"links"`
	Images          Images            `mapstructure:"images" yaml:"images"`
	List            List              `mapstructure:"list" yaml:"list"`
	Footnotes       Footnotes         `mapstructure:"footnotes" yaml:"footnotes"`
	Alerts          Alerts            `mapstructure:"alerts" yaml:"alerts"`
	TOC             TOC               `mapstructure:"toc" yaml:"toc"`
	PageNumbers     PageNumbers       `mapstructure:"page_numbers" yaml:"page_numbers"`
	TitlePage       TitlePage         `mapstructure:"title_page" yaml:"title_page"`
	Emphasis        Emphasis          `mapstructure:"emphasis" yaml:"emphasis"`
	Math            Math              `mapstructure:"math" yaml:"math"`
	Highlight       Highlight         `mapstructure:"highlight" yaml:"highlight"`
	DescriptionList DescriptionList   `mapstructure:"description_list" yaml:"description_list"`
	Syntax          Syntax            `mapstructure:"syntax" yaml:"syntax"`
}

type Meta struct {
	Name        string `mapstructure:"name" yaml:"name"`
	Version     string `mapstructure:"version" yaml:"version"`
	Variant     string `mapstructure:"variant" yaml:"variant" validate:"oneof=light dark"`
	Description string `mapstructure:"description" yaml:"description"`
	Family      string `mapstructure:"family" yaml:"family,omitempty"`
	PrintSafe   bool   `mapstructure:"print_safe" yaml:"print_safe"`
}

type Fonts struct {
	Heading         string   `mapstructure:"heading" yaml:"heading" validate:"required"`
	HeadingWeight   uint16   `mapstructure:"heading_weight" yaml:"heading_weight" validate:"min=100,max=900"`
	HeadingItalic   bool     `mapstructure:"heading_italic" yaml:"heading_italic"`
	Body            string   `mapstructure:"body" yaml:"body" validate:"required"`
	BodyWeight      uint16   `mapstructure:"body_weight" yaml:"body_weight" validate:"min=100,max=900"`
	BodyItalic      bool     `mapstructure:"body_italic" yaml:"body_italic"`
	Mono            string   `mapstructure:"mono" yaml:"mono" validate:"required"`
	MonoWeight      uint16   `mapstructure:"mono_weight" yaml:"mono_weight" validate:"min=100,max=900"`
	HeadingFallback []string `mapstructure:"heading_fallback" yaml:"heading_fallback"`
	BodyFallback    []string `mapstructure:"body_fallback" yaml:"body_fallback"`
	MonoFallback    []string `mapstructure:"mono_fallback" yaml:"mono_fallback"`
}

type FontSizes struct {
	Body  string `mapstructure:"body" yaml:"body" validate:"required"`
	Small string `mapstructure:"small" yaml:"small"`
	Code  string `mapstructure:"code" yaml:"code"`
	H1    string `mapstructure:"h1" yaml:"h1"`
	H2    string `mapstructure:"h2" yaml:"h2"`
	H3    string `mapstructure:"h3" yaml:"h3"`
	H4    string `mapstructure:"h4" yaml:"h4"`
	H5    string `mapstructure:"h5" yaml:"h5"`
	H6    string `mapstructure:"h6" yaml:"h6"`
}

type Page struct {
	Background   string `mapstructure:"background" yaml:"background"`
	MarginTop    string `mapstructure:"margin_top" yaml:"margin_top"`
	MarginBottom string `mapstructure:"margin_bottom" yaml:"margin_bottom"`
	MarginLeft   string `mapstructure:"margin_left" yaml:"margin_left"`
	MarginRight  string `mapstructure:"margin_right" yaml:"margin_right"`
	Paper        string `mapstructure:"paper" yaml:"paper" validate:"omitempty,oneof=a4 letter a5 legal"`
	Columns      uint8  `mapstructure:"columns" yaml:"columns" validate:"min=1,max=3"`
	ColumnGap    string `mapstructure:"column_gap" yaml:"column_gap"`
}

type Text struct {
	Color           string  `mapstructure:"color" yaml:"color"`
	LineHeight      float64 `mapstructure:"line_height" yaml:"line_height" validate:"gte=0"`
	ParagraphGap    string  `mapstructure:"paragraph_gap" yaml:"paragraph_gap"`
	Justification   string  `mapstructure:"justification" yaml:"justification" validate:"oneof=left justify"`
	SpacingMode     string  `mapstructure:"spacing_mode" yaml:"spacing_mode" validate:"oneof=gap indent both"`
	FirstLineIndent string  `mapstructure:"first_line_indent" yaml:"first_line_indent"`
	OrphanLines     uint8   `mapstructure:"orphan_lines" yaml:"orphan_lines"`
	WidowLines      uint8   `mapstructure:"widow_lines" yaml:"widow_lines"`
}

type Headings struct {
	Color         string       `mapstructure:"color" yaml:"color"`
	Font          string       `mapstructure:"font" yaml:"font"`
	LineHeight    float64      `mapstructure:"line_height" yaml:"line_height"`
	LetterSpacing string       `mapstructure:"letter_spacing" yaml:"letter_spacing"`
	H1            HeadingLevel `mapstructure:"h1" yaml:"h1"`
	H2            HeadingLevel `mapstructure:"h2" yaml:"h2"`
	H3            HeadingLevel `mapstructure:"h3" yaml:"h3"`
	H4            HeadingLevel `mapstructure:"h4" yaml:"h4"`
	H5            HeadingLevel `mapstructure:"h5" yaml:"h5"`
	H6            HeadingLevel `mapstructure:"h6" yaml:"h6"`
}

// Level returns per-level overrides, level is clamped to 1..6.
func (h Headings) Level(level int) HeadingLevel {
	switch {
	case level <= 1:
		return h.H1
	case level == 2:
		return h.H2
	case level == 3:
		return h.H3
	case level == 4:
		return h.H4
	case level == 5:
		return h.H5
	default:
		return h.H6
	}
}

type HeadingLevel struct {
	Weight          uint16   `mapstructure:"weight" yaml:"weight" validate:"omitempty,min=100,max=900"`
	LineHeight      *float64 `mapstructure:"line_height" yaml:"line_height,omitempty"`
	Border          *bool    `mapstructure:"border" yaml:"border,omitempty"`
	Above           string   `mapstructure:"above" yaml:"above"`
	Below           string   `mapstructure:"below" yaml:"below"`
	PageBreakBefore *bool    `mapstructure:"page_break_before" yaml:"page_break_before,omitempty"`
	Uppercase       *bool    `mapstructure:"uppercase" yaml:"uppercase,omitempty"`
	LetterSpacing   *string  `mapstructure:"letter_spacing" yaml:"letter_spacing,omitempty"`
}

type CodeBlock struct {
	Background         string  `mapstructure:"background" yaml:"background"`
	BorderColor        string  `mapstructure:"border_color" yaml:"border_color"`
	BorderRadius       string  `mapstructure:"border_radius" yaml:"border_radius"`
	PaddingVertical    string  `mapstructure:"padding_vertical" yaml:"padding_vertical"`
	PaddingHorizontal  string  `mapstructure:"padding_horizontal" yaml:"padding_horizontal"`
	LineHeight         float64 `mapstructure:"line_height" yaml:"line_height"`
	LeftAccent         bool    `mapstructure:"left_accent" yaml:"left_accent"`
	LeftAccentColor    string  `mapstructure:"left_accent_color" yaml:"left_accent_color"`
	LineNumbers        bool    `mapstructure:"line_numbers" yaml:"line_numbers"`
	LanguageLabel      bool    `mapstructure:"language_label" yaml:"language_label"`
	LanguageLabelColor string  `mapstructure:"language_label_color" yaml:"language_label_color"`
	LanguageLabelSize  string  `mapstructure:"language_label_size" yaml:"language_label_size"`
	Wrap               bool    `mapstructure:"wrap" yaml:"wrap"`
}

type CodeInline struct {
	Background   string `mapstructure:"background" yaml:"background"`
	BorderColor  string `mapstructure:"border_color" yaml:"border_color"`
	BorderRadius string `mapstructure:"border_radius" yaml:"border_radius"`
}

type Blockquote struct {
	BorderColor       string  `mapstructure:"border_color" yaml:"border_color"`
	BorderWidth       string  `mapstructure:"border_width" yaml:"border_width"`
	Background        string  `mapstructure:"background" yaml:"background"`
	BackgroundOpacity float64 `mapstructure:"background_opacity" yaml:"background_opacity" validate:"min=0,max=1"`
	TextColor         string  `mapstructure:"text_color" yaml:"text_color"`
	Italic            bool    `mapstructure:"italic" yaml:"italic"`
	LeftPadding       string  `mapstructure:"left_padding" yaml:"left_padding"`
}

type Table struct {
	HeaderBackground  string `mapstructure:"header_background" yaml:"header_background"`
	HeaderBorderColor string `mapstructure:"header_border_color" yaml:"header_border_color"`
	HeaderBorderWidth string `mapstructure:"header_border_width" yaml:"header_border_width"`
	HeaderFont        string `mapstructure:"header_font" yaml:"header_font"`
	HeaderWeight      uint16 `mapstructure:"header_weight" yaml:"header_weight" validate:"omitempty,min=100,max=900"`
	RowBorderColor    string `mapstructure:"row_border_color" yaml:"row_border_color"`
	RowBorderWidth    string `mapstructure:"row_border_width" yaml:"row_border_width"`
	StripeBackground  string `mapstructure:"stripe_background" yaml:"stripe_background"`
	VerticalLines     bool   `mapstructure:"vertical_lines" yaml:"vertical_lines"`
	CellPadding       string `mapstructure:"cell_padding" yaml:"cell_padding"`
}

type HorizontalRule struct {
	Color     string `mapstructure:"color" yaml:"color"`
	Width     string `mapstructure:"width" yaml:"width"`
	Thickness string `mapstructure:"thickness" yaml:"thickness"`
	Style     string `mapstructure:"style" yaml:"style" validate:"oneof=solid dashed dotted"`
}

type Links struct {
	Color     string `mapstructure:"color" yaml:"color"`
	Underline bool   `mapstructure:"underline" yaml:"underline"`
}

type Images struct {
	MaxWidth        string `mapstructure:"max_width" yaml:"max_width"`
	Alignment       string `mapstructure:"alignment" yaml:"alignment" validate:"oneof=left center right"`
	Border          bool   `mapstructure:"border" yaml:"border"`
	BorderRadius    string `mapstructure:"border_radius" yaml:"border_radius"`
	CaptionFont     string `mapstructure:"caption_font" yaml:"caption_font"`
	CaptionSize     string `mapstructure:"caption_size" yaml:"caption_size"`
	CaptionColor    string `mapstructure:"caption_color" yaml:"caption_color"`
	CaptionItalic   bool   `mapstructure:"caption_italic" yaml:"caption_italic"`
	CaptionPosition string `mapstructure:"caption_position" yaml:"caption_position" validate:"oneof=above below"`
}

type List struct {
	BulletColor        string `mapstructure:"bullet_color" yaml:"bullet_color"`
	Indent             string `mapstructure:"indent" yaml:"indent"`
	NestedIndent       string `mapstructure:"nested_indent" yaml:"nested_indent"`
	TaskCheckedColor   string `mapstructure:"task_checked_color" yaml:"task_checked_color"`
	TaskUncheckedColor string `mapstructure:"task_unchecked_color" yaml:"task_unchecked_color"`
}

type Footnotes struct {
	SeparatorColor string `mapstructure:"separator_color" yaml:"separator_color"`
	SeparatorWidth string `mapstructure:"separator_width" yaml:"separator_width"`
	TextSize       string `mapstructure:"text_size" yaml:"text_size"`
	NumberColor    string `mapstructure:"number_color" yaml:"number_color"`
	BackrefColor   string `mapstructure:"backref_color" yaml:"backref_color"`
}

type Alerts struct {
	NoteColor         string  `mapstructure:"note_color" yaml:"note_color"`
	TipColor          string  `mapstructure:"tip_color" yaml:"tip_color"`
	ImportantColor    string  `mapstructure:"important_color" yaml:"important_color"`
	WarningColor      string  `mapstructure:"warning_color" yaml:"warning_color"`
	CautionColor      string  `mapstructure:"caution_color" yaml:"caution_color"`
	BorderWidth       string  `mapstructure:"border_width" yaml:"border_width"`
	BackgroundOpacity float64 `mapstructure:"background_opacity" yaml:"background_opacity" validate:"min=0,max=1"`
	ShowIcon          bool    `mapstructure:"show_icon" yaml:"show_icon"`
	ShowLabel         bool    `mapstructure:"show_label" yaml:"show_label"`
}

// Color returns accent color for the alert type, unknown types use note
// color.
func (a Alerts) Color(kind string) string {
	switch kind {
	case "tip":
		return a.TipColor
	case "important":
		return a.ImportantColor
	case "warning":
		return a.WarningColor
	case "caution":
		return a.CautionColor
	default:
		return a.NoteColor
	}
}

type TOC struct {
	Enabled         bool   `mapstructure:"enabled" yaml:"enabled"`
	Title           string `mapstructure:"title" yaml:"title"`
	TitleSize       string `mapstructure:"title_size" yaml:"title_size"`
	EntryColor      string `mapstructure:"entry_color" yaml:"entry_color"`
	PageNumberColor string `mapstructure:"page_number_color" yaml:"page_number_color"`
	LeaderStyle     string `mapstructure:"leader_style" yaml:"leader_style" validate:"oneof=dots line none"`
	Indent          string `mapstructure:"indent" yaml:"indent"`
	MaxDepth        uint8  `mapstructure:"max_depth" yaml:"max_depth" validate:"min=1,max=6"`
}

type PageNumbers struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Position  string `mapstructure:"position" yaml:"position" validate:"oneof=left center right"`
	Format    string `mapstructure:"format" yaml:"format"`
	Font      string `mapstructure:"font" yaml:"font"`
	Size      string `mapstructure:"size" yaml:"size"`
	Color     string `mapstructure:"color" yaml:"color"`
	FirstPage bool   `mapstructure:"first_page" yaml:"first_page"`
}

type TitlePage struct {
	Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
	TitleFont      string `mapstructure:"title_font" yaml:"title_font"`
	TitleSize      string `mapstructure:"title_size" yaml:"title_size"`
	TitleColor     string `mapstructure:"title_color" yaml:"title_color"`
	SubtitleColor  string `mapstructure:"subtitle_color" yaml:"subtitle_color"`
	AuthorColor    string `mapstructure:"author_color" yaml:"author_color"`
	DateColor      string `mapstructure:"date_color" yaml:"date_color"`
	SeparatorColor string `mapstructure:"separator_color" yaml:"separator_color"`
}

type Emphasis struct {
	StrikethroughColor string `mapstructure:"strikethrough_color" yaml:"strikethrough_color"`
}

type Math struct {
	Color string `mapstructure:"color" yaml:"color"`
}

type Highlight struct {
	Fill         string  `mapstructure:"fill" yaml:"fill"`
	FillOpacity  float64 `mapstructure:"fill_opacity" yaml:"fill_opacity" validate:"min=0,max=1"`
	TextColor    string  `mapstructure:"text_color" yaml:"text_color"`
	BorderRadius string  `mapstructure:"border_radius" yaml:"border_radius"`
}

type DescriptionList struct {
	TermFont         string `mapstructure:"term_font" yaml:"term_font"`
	TermWeight       uint16 `mapstructure:"term_weight" yaml:"term_weight" validate:"omitempty,min=100,max=900"`
	TermColor        string `mapstructure:"term_color" yaml:"term_color"`
	DefinitionIndent string `mapstructure:"definition_indent" yaml:"definition_indent"`
	TermSpacing      string `mapstructure:"term_spacing" yaml:"term_spacing"`
	ItemSpacing      string `mapstructure:"item_spacing" yaml:"item_spacing"`
}

// Syntax holds code highlighting styles: global background and text plus
// sixteen named token styles.
type Syntax struct {
	Background  string      `mapstructure:"background" yaml:"background"`
	Text        SyntaxStyle `mapstructure:"text" yaml:"text"`
	Keyword     SyntaxStyle `mapstructure:"keyword" yaml:"keyword"`
	String      SyntaxStyle `mapstructure:"string" yaml:"string"`
	Number      SyntaxStyle `mapstructure:"number" yaml:"number"`
	Function    SyntaxStyle `mapstructure:"function" yaml:"function"`
	Type        SyntaxStyle `mapstructure:"type" yaml:"type"`
	Comment     SyntaxStyle `mapstructure:"comment" yaml:"comment"`
	Constant    SyntaxStyle `mapstructure:"constant" yaml:"constant"`
	Boolean     SyntaxStyle `mapstructure:"boolean" yaml:"boolean"`
	Operator    SyntaxStyle `mapstructure:"operator" yaml:"operator"`
	Property    SyntaxStyle `mapstructure:"property" yaml:"property"`
	Tag         SyntaxStyle `mapstructure:"tag" yaml:"tag"`
	Attribute   SyntaxStyle `mapstructure:"attribute" yaml:"attribute"`
	Variable    SyntaxStyle `mapstructure:"variable" yaml:"variable"`
	Builtin     SyntaxStyle `mapstructure:"builtin" yaml:"builtin"`
	Punctuation SyntaxStyle `mapstructure:"punctuation" yaml:"punctuation"`
	Escape      SyntaxStyle `mapstructure:"escape" yaml:"escape"`
}

type SyntaxStyle struct {
	Color  string `mapstructure:"color" yaml:"color"`
	Bold   *bool  `mapstructure:"bold" yaml:"bold,omitempty"`
	Italic *bool  `mapstructure:"italic" yaml:"italic,omitempty"`
}

// Token returns style by token name, "text" and unknown names map to base
// text style.
func (s *Syntax) Token(name string) *SyntaxStyle {
	switch name {
	case "keyword":
		return &s.Keyword
	case "string":
		return &s.String
	case "number":
		return &s.Number
	case "function":
		return &s.Function
	case "type":
		return &s.Type
	case "comment":
		return &s.Comment
	case "constant":
		return &s.Constant
	case "boolean":
		return &s.Boolean
	case "operator":
		return &s.Operator
	case "property":
		return &s.Property
	case "tag":
		return &s.Tag
	case "attribute":
		return &s.Attribute
	case "variable":
		return &s.Variable
	case "builtin":
		return &s.Builtin
	case "punctuation":
		return &s.Punctuation
	case "escape":
		return &s.Escape
	default:
		return &s.Text
	}
}

// clone returns deep copy so resolved instances never share maps or slices.
func (t Tokens) clone() Tokens {
	out := t
	out.Colors = make(map[string]string, len(t.Colors))
	for k, v := range t.Colors {
		out.Colors[k] = v
	}
	out.Fonts.HeadingFallback = append([]string(nil), t.Fonts.HeadingFallback...)
	out.Fonts.BodyFallback = append([]string(nil), t.Fonts.BodyFallback...)
	out.Fonts.MonoFallback = append([]string(nil), t.Fonts.MonoFallback...)
	for _, h := range []*HeadingLevel{&out.Headings.H1, &out.Headings.H2, &out.Headings.H3, &out.Headings.H4, &out.Headings.H5, &out.Headings.H6} {
		h.LineHeight = clonePtr(h.LineHeight)
		h.Border = clonePtr(h.Border)
		h.PageBreakBefore = clonePtr(h.PageBreakBefore)
		h.Uppercase = clonePtr(h.Uppercase)
		h.LetterSpacing = clonePtr(h.LetterSpacing)
	}
	for _, name := range SyntaxTokenNames {
		st := out.Syntax.Token(name)
		st.Bold = clonePtr(st.Bold)
		st.Italic = clonePtr(st.Italic)
	}
	out.Syntax.Text.Bold = clonePtr(out.Syntax.Text.Bold)
	out.Syntax.Text.Italic = clonePtr(out.Syntax.Text.Italic)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
