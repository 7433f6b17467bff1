package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var mathFence = []byte("$$")

// KindInlineMath and KindMathBlock identify math nodes.
var (
	KindInlineMath = ast.NewNodeKind("InlineMath")
	KindMathBlock  = ast.NewNodeKind("MathBlock")
)

// InlineMath is `$…$` inside a paragraph, or `$$…$$` when Display is set.
type InlineMath struct {
	ast.BaseInline
	Display bool
	Value   []byte
}

// Kind implements ast.Node.
func (n *InlineMath) Kind() ast.NodeKind { return KindInlineMath }

// Dump implements ast.Node.
func (n *InlineMath) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Value": string(n.Value)}, nil)
}

// MathBlock is display math opened by a line starting with `$$`.
type MathBlock struct {
	ast.BaseBlock
	Value  []byte
	closed bool
}

// Kind implements ast.Node.
func (n *MathBlock) Kind() ast.NodeKind { return KindMathBlock }

// IsRaw implements ast.Node.
func (n *MathBlock) IsRaw() bool { return true }

// Dump implements ast.Node.
func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Value": string(n.Value)}, nil)
}

type mathExtension struct{}

// Math renders TeX notation for client-side typesetting: inline math as
// `<span class="math inline">\(…\)</span>` and display math as
// `<div class="math display">\[…\]</div>`. The TeX source is HTML-escaped
// and otherwise left untouched.
var Math goldmark.Extender = mathExtension{}

func (mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(mathBlockParser{}, 750)),
		parser.WithInlineParsers(util.Prioritized(inlineMathParser{}, 150)),
	)
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(mathRenderer{}, 500)))
}

type inlineMathParser struct{}

func (inlineMathParser) Trigger() []byte { return []byte{'$'} }

func (inlineMathParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	display := bytes.HasPrefix(line, mathFence)
	delim := line[:1]
	if display {
		delim = mathFence
	}
	body := line[len(delim):]
	end := closingDelimiter(body, delim, display)
	if end < 0 {
		return nil
	}
	block.Advance(len(delim) + end + len(delim))
	return &InlineMath{Display: display, Value: append([]byte(nil), body[:end]...)}
}

// closingDelimiter returns the offset of the delimiter closing body, or -1.
// Single-dollar math must not start or end with a space, and a closing `$`
// directly followed by a digit does not count, so prices like "$5 and $10"
// stay text.
func closingDelimiter(body, delim []byte, display bool) int {
	if len(body) == 0 || (!display && isSpace(body[0])) {
		return -1
	}
	for i := 0; i < len(body); i++ {
		switch {
		case body[i] == '\\':
			i++
		case body[i] == '\n':
			return -1
		case bytes.HasPrefix(body[i:], delim):
			if i == 0 {
				return -1
			}
			if !display && (isSpace(body[i-1]) || (i+1 < len(body) && isDigit(body[i+1]))) {
				continue
			}
			return i
		}
	}
	return -1
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }

type mathBlockParser struct{}

func (mathBlockParser) Trigger() []byte { return []byte{'$'} }

func (mathBlockParser) Open(_ ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, _ := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !bytes.HasPrefix(line[pos:], mathFence) {
		return nil, parser.NoChildren
	}
	rest := bytes.TrimSpace(line[pos+len(mathFence):])
	node := &MathBlock{}
	if end := bytes.Index(rest, mathFence); end >= 0 {
		// "$$x$$ and more" is a paragraph with inline display math.
		if len(bytes.TrimSpace(rest[end+len(mathFence):])) > 0 {
			return nil, parser.NoChildren
		}
		node.Value = append(node.Value, bytes.TrimSpace(rest[:end])...)
		node.closed = true
		return node, parser.NoChildren
	}
	if len(rest) > 0 {
		node.Value = append(node.Value, rest...)
		node.Value = append(node.Value, '\n')
	}
	return node, parser.NoChildren
}

func (mathBlockParser) Continue(node ast.Node, reader text.Reader, _ parser.Context) parser.State {
	n := node.(*MathBlock)
	if n.closed {
		return parser.Close
	}
	line, segment := reader.PeekLine()
	if line == nil {
		return parser.Close
	}
	newline := 0
	if line[len(line)-1] == '\n' {
		newline = 1
	}
	trimmed := bytes.TrimSpace(line)
	if bytes.HasSuffix(trimmed, mathFence) {
		if content := bytes.TrimSpace(trimmed[:len(trimmed)-len(mathFence)]); len(content) > 0 {
			n.Value = append(n.Value, content...)
		}
		n.Value = bytes.TrimRight(n.Value, "\n")
		n.closed = true
		reader.Advance(segment.Stop - segment.Start - newline + segment.Padding)
		return parser.Close
	}
	n.Value = append(n.Value, bytes.TrimRight(line, "\r\n")...)
	n.Value = append(n.Value, '\n')
	reader.Advance(segment.Stop - segment.Start - newline + segment.Padding)
	return parser.Continue | parser.NoChildren
}

func (mathBlockParser) Close(ast.Node, text.Reader, parser.Context) {}

func (mathBlockParser) CanInterruptParagraph() bool { return true }

func (mathBlockParser) CanAcceptIndentedLine() bool { return false }

type mathRenderer struct{}

func (mathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindInlineMath, renderInlineMath)
	reg.Register(KindMathBlock, renderMathBlock)
}

func renderInlineMath(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*InlineMath)
	if n.Display {
		_, _ = w.WriteString(`<span class="math display">\[`)
		_, _ = w.Write(util.EscapeHTML(n.Value))
		_, _ = w.WriteString(`\]</span>`)
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<span class="math inline">\(`)
	_, _ = w.Write(util.EscapeHTML(n.Value))
	_, _ = w.WriteString(`\)</span>`)
	return ast.WalkContinue, nil
}

func renderMathBlock(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<div class="math display">\[`)
	_, _ = w.Write(util.EscapeHTML(node.(*MathBlock).Value))
	_, _ = w.WriteString("\\]</div>\n")
	return ast.WalkContinue, nil
}
