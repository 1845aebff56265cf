package convert

import (
	"testing"

	"mdprint/config"
	"mdprint/content"
)

func templateContent() *content.Content {
	return &content.Content{
		SrcName: "notes/field-notes.md",
		FrontMatter: &content.FrontMatter{
			Title:    "Field Notes",
			Subtitle: "Spring",
			Authors:  content.Authors{"Ann Lee", "Bob Roe"},
			Date:     "2024-03-01",
			Lang:     "de",
		},
	}
}

func TestExpandTemplate(t *testing.T) {
	tests := []struct {
		name, tmpl, want string
	}{
		{"plain text", "simple-text", "simple-text"},
		{"title", "{{ .Title }}", "Field Notes"},
		{"sprig", "{{ .Title | lower | replace \" \" \"_\" }}", "field_notes"},
		{"first author", "{{ index .Authors 0 }} - {{ .Title }}", "Ann Lee - Field Notes"},
		{"join authors", "{{ join \", \" .Authors }}", "Ann Lee, Bob Roe"},
		{"subdirectory", "{{ .Language }}/{{ .SourceFile }}", "de/field-notes"},
		{"theme and date", "{{ .Theme }}-{{ .Date }}", "nord-2024-03-01"},
		{"context", "{{ .Context }}", "output_name_template"},
		{"subtitle", "{{ .Subtitle }}", "Spring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandTemplate(templateContent(), config.OutputNameTemplateFieldName, tt.tmpl, "nord")
			if err != nil {
				t.Fatalf("expandTemplate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("expandTemplate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandTemplate_Errors(t *testing.T) {
	c := templateContent()
	if _, err := expandTemplate(c, config.OutputNameTemplateFieldName, "{{ .Title", "nord"); err == nil {
		t.Error("expected parse error")
	}
	if _, err := expandTemplate(c, config.OutputNameTemplateFieldName, "{{ .Missing }}", "nord"); err == nil {
		t.Error("expected execution error")
	}
}

func TestExpandTemplate_NoFrontMatter(t *testing.T) {
	c := &content.Content{SrcName: "a.md"}
	got, err := expandTemplate(c, config.OutputNameTemplateFieldName, "{{ .Title }}{{ .SourceFile }}", "nord")
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if got != "a" {
		t.Errorf("expandTemplate() = %q", got)
	}
}
