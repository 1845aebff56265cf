package convert

import (
	"bytes"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"mdprint/config"
	"mdprint/content"
)

// Values holds variables available for template expansion.
type Values struct {
	Context    string
	Title      string
	Subtitle   string
	Authors    []string
	Date       string
	Language   string
	Theme      string
	SourceFile string
}

func buildValues(c *content.Content, name config.TemplateFieldName, themeID string) Values {
	v := Values{
		Context:    string(name),
		Theme:      themeID,
		SourceFile: c.Name(),
	}
	if fm := c.FrontMatter; fm != nil {
		v.Title = fm.Title
		v.Subtitle = fm.Subtitle
		v.Authors = append([]string(nil), fm.Authors...)
		v.Date = fm.Date
		v.Language = fm.Lang
	}
	return v
}

func expandTemplate(c *content.Content, name config.TemplateFieldName, field, themeID string) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, buildValues(c, name, themeID)); err != nil {
		return "", fmt.Errorf("unable to expand template field %s: %w", name, err)
	}
	return buf.String(), nil
}
