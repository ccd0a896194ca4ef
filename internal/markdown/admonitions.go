package markdown

import (
	"bytes"
	"regexp"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// KindAdmonition is the node kind of an admonition block.
var KindAdmonition = ast.NewNodeKind("Admonition")

// Admonition is a `!!! type "Title"` block whose indented body is markdown.
// `??? type` and `???+ type` produce a collapsible block, closed or open.
type Admonition struct {
	ast.BaseBlock
	Type  string
	Title string

	Collapsible bool
	Open        bool
}

// Kind implements ast.Node.
func (n *Admonition) Kind() ast.NodeKind { return KindAdmonition }

// Dump implements ast.Node.
func (n *Admonition) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Type": n.Type, "Title": n.Title}, nil)
}

var admonitionHeader = regexp.MustCompile(`^(!!!|\?\?\?\+?)[ \t]+([\w-]+)(?:[ \t]+"([^"]*)")?[ \t]*$`)

type admonitionParser struct{}

func (p *admonitionParser) Trigger() []byte { return []byte{'!', '?'} }

func (p *admonitionParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, _ := reader.PeekLine()
	w, pos := util.IndentWidth(line, reader.LineOffset())
	if w > 3 || pos >= len(line) {
		return nil, parser.NoChildren
	}
	header := bytes.TrimRight(line[pos:], "\r\n")
	m := admonitionHeader.FindSubmatchIndex(header)
	if m == nil {
		return nil, parser.NoChildren
	}

	marker := string(header[m[2]:m[3]])
	node := &Admonition{
		Type:        string(header[m[4]:m[5]]),
		Collapsible: marker != "!!!",
		Open:        marker == "???+",
	}
	if m[6] >= 0 {
		node.Title = string(header[m[6]:m[7]])
	} else {
		node.Title = capitalize(node.Type)
	}

	reader.Advance(pos + len(header))
	return node, parser.HasChildren
}

// Continue keeps blank lines and lines indented by four columns; the
// indentation is consumed so the body parses as top-level markdown.
func (p *admonitionParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, _ := reader.PeekLine()
	if util.IsBlank(line) {
		return parser.Continue | parser.HasChildren
	}
	pos, padding := util.IndentPosition(line, reader.LineOffset(), 4)
	if pos < 0 {
		return parser.Close
	}
	reader.AdvanceAndSetPadding(pos, padding)
	return parser.Continue | parser.HasChildren
}

func (p *admonitionParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (p *admonitionParser) CanInterruptParagraph() bool { return true }

func (p *admonitionParser) CanAcceptIndentedLine() bool { return false }

type admonitionRenderer struct{}

func (r *admonitionRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindAdmonition, r.render)
}

func (r *admonitionRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*Admonition)
	if !entering {
		if n.Collapsible {
			_, _ = w.WriteString("</details>\n")
		} else {
			_, _ = w.WriteString("</div>\n")
		}
		return ast.WalkContinue, nil
	}

	class := util.EscapeHTML([]byte(n.Type))
	title := util.EscapeHTML([]byte(n.Title))
	if n.Collapsible {
		_, _ = w.WriteString(`<details class="`)
		_, _ = w.Write(class)
		_ = w.WriteByte('"')
		if n.Open {
			_, _ = w.WriteString(" open")
		}
		_, _ = w.WriteString(">\n<summary>")
		_, _ = w.Write(title)
		_, _ = w.WriteString("</summary>\n")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<div class="admonition `)
	_, _ = w.Write(class)
	_, _ = w.WriteString("\">\n")
	if len(title) > 0 {
		_, _ = w.WriteString(`<p class="admonition-title">`)
		_, _ = w.Write(title)
		_, _ = w.WriteString("</p>\n")
	}
	return ast.WalkContinue, nil
}

// capitalize upper-cases the first rune of s and lower-cases the rest, the
// default title of an admonition without one.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(s[:size]) + cases.Lower(language.Und).String(s[size:])
}

type admonitionExtension struct{}

// Admonitions adds `!!!` and `???` blocks to a goldmark instance.
var Admonitions goldmark.Extender = &admonitionExtension{}

func (e *admonitionExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithBlockParsers(
		util.Prioritized(&admonitionParser{}, 750),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&admonitionRenderer{}, 500),
	))
}
