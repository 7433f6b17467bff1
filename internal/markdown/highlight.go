package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "github"

// Highlighter turns source code into an HTML block. language may be empty.
type Highlighter interface {
	Highlight(code, language string) (string, error)
}

// ChromaHighlighter highlights with chroma using inline styles, so the
// output needs no accompanying stylesheet.
type ChromaHighlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChromaHighlighter returns a highlighter for the named chroma style.
// Unknown names fall back to chroma's default style.
func NewChromaHighlighter(style string) *ChromaHighlighter {
	if style == "" {
		style = DefaultStyle
	}
	return &ChromaHighlighter{
		style:     styles.Get(style),
		formatter: chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(4)),
	}
}

// Highlight picks a lexer by language, then by content analysis, then plain text.
func (h *ChromaHighlighter) Highlight(code, language string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenise %q: %w", language, err)
	}
	var b strings.Builder
	if err := h.formatter.Format(&b, h.style, iterator); err != nil {
		return "", fmt.Errorf("format %q: %w", language, err)
	}
	return b.String(), nil
}

// plainCodeBlock is the markup used when highlighting fails.
func plainCodeBlock(code, language string) string {
	var b strings.Builder
	b.WriteString("<pre><code")
	if language != "" {
		b.WriteString(` class="language-`)
		b.WriteString(html.EscapeString(language))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	b.WriteString(html.EscapeString(code))
	b.WriteString("</code></pre>")
	return b.String()
}

// KindHighlightedCode is the node kind of a pre-rendered code block.
var KindHighlightedCode = ast.NewNodeKind("HighlightedCode")

// HighlightedCode holds the HTML that replaced a code block.
type HighlightedCode struct {
	ast.BaseBlock
	HTML string
}

// Kind implements ast.Node.
func (n *HighlightedCode) Kind() ast.NodeKind { return KindHighlightedCode }

// Dump implements ast.Node.
func (n *HighlightedCode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"HTML": n.HTML}, nil)
}

type highlightedCodeRenderer struct{}

func (highlightedCodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindHighlightedCode, func(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			_, _ = w.WriteString(n.(*HighlightedCode).HTML)
			_ = w.WriteByte('\n')
		}
		return ast.WalkContinue, nil
	})
}

type highlightState int

const (
	stateNormal highlightState = iota
	stateBufferingCode
)

type substitution struct {
	target      ast.Node
	replacement ast.Node
}

// highlightPass walks a parsed document with two states. Entering a code
// block starts buffering, each block line is appended, and leaving the block
// highlights the buffer and queues a replacement node. Replacements are
// applied after the walk so the AST is not mutated mid-traversal.
type highlightPass struct {
	highlighter Highlighter
	state       highlightState
	language    string
	buf         bytes.Buffer
	subs        []substitution
}

func newHighlightPass(h Highlighter) *highlightPass {
	return &highlightPass{highlighter: h}
}

func (p *highlightPass) run(doc ast.Node, source []byte) error {
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !isCodeBlock(n) {
			return ast.WalkContinue, nil
		}
		if entering {
			if err := p.enter(codeLanguage(n, source)); err != nil {
				return ast.WalkStop, err
			}
			lines := n.Lines()
			for i := range lines.Len() {
				segment := lines.At(i)
				p.text(segment.Value(source))
			}
			return ast.WalkContinue, nil
		}
		if err := p.leave(n); err != nil {
			return ast.WalkStop, err
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return err
	}
	for _, s := range p.subs {
		parent := s.target.Parent()
		parent.ReplaceChild(parent, s.target, s.replacement)
	}
	return nil
}

func (p *highlightPass) enter(language string) error {
	if p.state != stateNormal {
		return errors.New("nested code block")
	}
	p.state = stateBufferingCode
	p.language = language
	p.buf.Reset()
	return nil
}

func (p *highlightPass) text(line []byte) {
	if p.state == stateBufferingCode {
		p.buf.Write(line)
	}
}

func (p *highlightPass) leave(block ast.Node) error {
	if p.state != stateBufferingCode {
		return errors.New("code block closed without being opened")
	}
	code := p.buf.String()
	rendered, err := p.highlighter.Highlight(code, p.language)
	if err != nil {
		rendered = plainCodeBlock(code, p.language)
	}
	p.subs = append(p.subs, substitution{target: block, replacement: &HighlightedCode{HTML: rendered}})
	p.state = stateNormal
	p.language = ""
	return nil
}

func isCodeBlock(n ast.Node) bool {
	switch n.Kind() {
	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		return true
	}
	return false
}

func codeLanguage(n ast.Node, source []byte) string {
	if fenced, ok := n.(*ast.FencedCodeBlock); ok {
		return string(fenced.Language(source))
	}
	return ""
}
