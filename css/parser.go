// Package css reads inline style declarations of raw HTML embedded into
// markdown.
package css

import (
	"strconv"
	"strings"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses style attribute values.
type Parser struct {
	log *zap.Logger
}

func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// ParseInline parses declaration list of style attribute. Malformed
// declarations are skipped, custom properties are ignored.
func (p *Parser) ParseInline(style string) Declarations {
	decls := make(Declarations)
	if len(strings.TrimSpace(style)) == 0 {
		return decls
	}

	parser := css.NewParser(parse.NewInput(strings.NewReader(style)), true)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && err.Error() != "EOF" {
				p.log.Debug("CSS parse error", zap.String("style", style), zap.Error(err))
			}
			return decls
		case css.DeclarationGrammar:
			values := parser.Values()
			if len(values) > 0 {
				decls[strings.ToLower(string(data))] = parseValue(values)
			}
		case css.CustomPropertyGrammar:
			continue
		default:
			p.log.Debug("Unexpected CSS in style attribute", zap.String("style", style), zap.String("data", string(data)))
		}
	}
}

func parseValue(tokens []css.Token) Value {
	var parts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			parts = append(parts, string(t.Data))
		} else if len(parts) > 0 {
			parts = append(parts, " ")
		}
	}
	raw := strings.TrimSpace(strings.Join(parts, ""))
	// "!important" has no meaning for us
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(raw, "important"), "!"))

	val := Value{Raw: raw}

	significant := tokens[:0:0]
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			significant = append(significant, t)
		}
	}
	if len(significant) == 1 {
		t := significant[0]
		switch t.TokenType {
		case css.DimensionToken:
			val.Value, val.Unit = parseDimension(string(t.Data))
			return val
		case css.PercentageToken:
			val.Value, _ = strconv.ParseFloat(strings.TrimSuffix(string(t.Data), "%"), 64)
			val.Unit = "%"
			return val
		case css.NumberToken:
			val.Value, _ = strconv.ParseFloat(string(t.Data), 64)
			return val
		case css.IdentToken:
			val.Keyword = strings.ToLower(string(t.Data))
			return val
		case css.StringToken:
			val.Keyword = unquote(string(t.Data))
			return val
		}
	}
	val.Keyword = raw
	return val
}

// parseDimension splits dimension token into number and lowercased unit.
func parseDimension(s string) (float64, string) {
	numEnd := 0
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' {
			numEnd = i + 1
		} else {
			break
		}
	}
	if numEnd == 0 {
		return 0, ""
	}
	num, _ := strconv.ParseFloat(s[:numEnd], 64)
	return num, strings.ToLower(s[numEnd:])
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
