package theme

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/rupor-github/gencfg"
)

// decodeTokens converts merged raw tree into typed tokens and validates
// enumerations. Keys not known to the schema are rejected.
func decodeTokens(data map[string]any, origin string) (*Tokens, error) {
	var (
		t  Tokens
		md mapstructure.Metadata
	)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:   &t,
		Metadata: &md,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create theme decoder: %w", err)
	}
	if err := dec.Decode(data); err != nil {
		return nil, &InvalidError{
			Location: Location{Source: origin},
			Message:  err.Error(),
			Err:      err,
		}
	}
	if len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		return nil, &InvalidError{
			Location: Location{Source: origin, Key: md.Unused[0]},
			Message:  "unknown key",
		}
	}
	if err := gencfg.Validate(&t, gencfg.WithAdditionalChecks(tokensStructLevel)); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, &InvalidError{
				Location: Location{Source: origin, Key: keyPath(fe.StructNamespace())},
				Message:  fmt.Sprintf("value '%v' fails '%s' check", fe.Value(), validationRule(fe)),
				Err:      err,
			}
		}
		return nil, &InvalidError{Location: Location{Source: origin}, Message: err.Error(), Err: err}
	}
	return &t, nil
}

func validationRule(fe validator.FieldError) string {
	if len(fe.Param()) == 0 {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// tokensStructLevel holds cross-field rules.
func tokensStructLevel(sl validator.StructLevel) {
	t, ok := sl.Current().Interface().(Tokens)
	if !ok {
		return
	}
	if t.Text.SpacingMode != "gap" && len(strings.TrimSpace(t.Text.FirstLineIndent)) == 0 {
		sl.ReportError(t.Text.FirstLineIndent, "first_line_indent", "Text.FirstLineIndent", "required_with_indent", "")
	}
}

// keyPath translates validator struct namespace ("Tokens.Text.SpacingMode")
// into theme key path ("text.spacing_mode").
func keyPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 0 {
		parts = parts[1:]
	}
	typ := reflect.TypeOf(Tokens{})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if typ.Kind() == reflect.Ptr {
			typ = typ.Elem()
		}
		if typ.Kind() != reflect.Struct {
			out = append(out, p)
			continue
		}
		f, ok := typ.FieldByName(p)
		if !ok {
			out = append(out, p)
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if len(name) == 0 {
			name = strings.ToLower(p)
		}
		out = append(out, name)
		typ = f.Type
	}
	return strings.Join(out, ".")
}
