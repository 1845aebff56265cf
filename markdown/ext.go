package markdown

import (
	"bytes"
	"strconv"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Goldmark nodes produced by local syntax extensions.

var (
	kindMath      = ast.NewNodeKind("Math")
	kindWikilink  = ast.NewNodeKind("Wikilink")
	kindHighlight = ast.NewNodeKind("Highlight")
)

type mathNode struct {
	ast.BaseInline
	display bool
	value   []byte
}

func (n *mathNode) Kind() ast.NodeKind { return kindMath }

func (n *mathNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Display": strconv.FormatBool(n.display),
		"Value":   string(n.value),
	}, nil)
}

type wikilinkNode struct {
	ast.BaseInline
	target  []byte
	display []byte
}

func (n *wikilinkNode) Kind() ast.NodeKind { return kindWikilink }

func (n *wikilinkNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Target":  string(n.target),
		"Display": string(n.display),
	}, nil)
}

type highlightNode struct {
	ast.BaseInline
}

func (n *highlightNode) Kind() ast.NodeKind { return kindHighlight }

func (n *highlightNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// mathParser recognizes $inline$ and $$display$$ math. Display math may span
// several lines of a paragraph, inline math may not. Following pandoc, inline
// opener must not be followed by space and closer must not be preceded by
// space or followed by digit, so "$5 and $10" stays text.
type mathParser struct{}

func (p *mathParser) Trigger() []byte {
	return []byte{'$'}
}

func (p *mathParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if bytes.HasPrefix(line, []byte("$$")) {
		return p.parseDisplay(block)
	}
	return p.parseInline(line, block)
}

func (p *mathParser) parseInline(line []byte, block text.Reader) ast.Node {
	if len(line) < 3 || line[1] == ' ' || line[1] == '\t' || line[1] == '\n' {
		return nil
	}
	for i := 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '\n':
			return nil
		case '$':
			if line[i-1] == ' ' || line[i-1] == '\t' {
				continue
			}
			if i+1 < len(line) && line[i+1] >= '0' && line[i+1] <= '9' {
				continue
			}
			node := &mathNode{value: append([]byte(nil), line[1:i]...)}
			block.Advance(i + 1)
			return node
		}
	}
	return nil
}

func (p *mathParser) parseDisplay(block text.Reader) ast.Node {
	startLine, startPos := block.Position()
	block.Advance(2)

	var buf bytes.Buffer
	for {
		line, _ := block.PeekLine()
		if line == nil {
			block.SetPosition(startLine, startPos)
			return nil
		}
		for i := 0; i < len(line); i++ {
			if line[i] == '\\' {
				i++
				continue
			}
			if line[i] == '$' && i+1 < len(line) && line[i+1] == '$' {
				buf.Write(line[:i])
				block.Advance(i + 2)
				value := bytes.TrimSpace(buf.Bytes())
				if len(value) == 0 {
					block.SetPosition(startLine, startPos)
					return nil
				}
				return &mathNode{display: true, value: append([]byte(nil), value...)}
			}
		}
		buf.Write(line)
		block.AdvanceLine()
	}
}

// wikilinkParser recognizes [[target]] and [[target|display]]. It has to run
// before the standard link parser.
type wikilinkParser struct{}

func (p *wikilinkParser) Trigger() []byte {
	return []byte{'['}
}

func (p *wikilinkParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if !bytes.HasPrefix(line, []byte("[[")) {
		return nil
	}
	end := bytes.Index(line[2:], []byte("]]"))
	if end < 0 {
		return nil
	}
	body := line[2 : 2+end]
	if bytes.ContainsAny(body, "[]\n") {
		return nil
	}
	target, display, _ := bytes.Cut(body, []byte("|"))
	target = bytes.TrimSpace(target)
	if len(target) == 0 {
		return nil
	}
	block.Advance(2 + end + 2)
	return &wikilinkNode{
		target:  append([]byte(nil), target...),
		display: append([]byte(nil), bytes.TrimSpace(display)...),
	}
}

// highlightParser handles ==marked== text using the same delimiter machinery
// as emphasis and strikethrough.
type highlightParser struct{}

type highlightDelimiterProcessor struct{}

func (p *highlightDelimiterProcessor) IsDelimiter(b byte) bool {
	return b == '='
}

func (p *highlightDelimiterProcessor) CanOpenCloser(opener, closer *parser.Delimiter) bool {
	return opener.Char == closer.Char
}

func (p *highlightDelimiterProcessor) OnMatch(consumes int) ast.Node {
	return &highlightNode{}
}

var defaultHighlightDelimiterProcessor = &highlightDelimiterProcessor{}

func (p *highlightParser) Trigger() []byte {
	return []byte{'='}
}

func (p *highlightParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	before := block.PrecendingCharacter()
	line, segment := block.PeekLine()
	node := parser.ScanDelimiter(line, before, 2, defaultHighlightDelimiterProcessor)
	if node == nil || node.OriginalLength != 2 || before == '=' {
		return nil
	}
	node.Segment = segment.WithStop(segment.Start + node.OriginalLength)
	block.Advance(node.OriginalLength)
	pc.PushDelimiter(node)
	return node
}

type syntaxExtensions struct{}

// Extend registers local inline parsers. Wikilinks must go ahead of the
// standard link parser (200).
func (e *syntaxExtensions) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&mathParser{}, 90),
		util.Prioritized(&wikilinkParser{}, 199),
		util.Prioritized(&highlightParser{}, 500),
	))
}
