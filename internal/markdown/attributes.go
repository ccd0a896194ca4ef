package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// attributeListTransformer applies `{ .class #id key=value }` lists that
// follow an image and `{: ... }` lines that end a paragraph. Heading
// attributes are handled by the parser itself.
type attributeListTransformer struct{}

func (t *attributeListTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	var (
		images     []*ast.Image
		paragraphs []*ast.Paragraph
	)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Image:
			images = append(images, v)
		case *ast.Paragraph:
			paragraphs = append(paragraphs, v)
		}
		return ast.WalkContinue, nil
	})

	for _, p := range paragraphs {
		applyParagraphAttributes(p, source)
	}
	for _, img := range images {
		applyImageAttributes(img, source)
	}
}

// applyParagraphAttributes consumes a trailing `{: ... }` line. A paragraph
// made of that line alone is left as text.
func applyParagraphAttributes(p *ast.Paragraph, source []byte) {
	lines := p.Lines()
	if lines.Len() < 2 {
		return
	}
	last := lines.At(lines.Len() - 1)
	attrs, ok := parseAttributeList(bytes.TrimSpace(last.Value(source)))
	if !ok {
		return
	}

	removed := false
	for c := p.LastChild(); c != nil; {
		t, isText := c.(*ast.Text)
		if !isText || t.Segment.Start < last.Start {
			break
		}
		prev := c.PreviousSibling()
		p.RemoveChild(p, c)
		removed = true
		c = prev
	}
	if !removed {
		return
	}
	if t, ok := p.LastChild().(*ast.Text); ok {
		t.SetSoftLineBreak(false)
	}
	for _, a := range attrs {
		p.SetAttribute(a.Name, a.Value)
	}
}

// applyImageAttributes consumes a `{ ... }` list written right after an image.
func applyImageAttributes(img *ast.Image, source []byte) {
	next, ok := img.NextSibling().(*ast.Text)
	if !ok {
		return
	}
	value := next.Segment.Value(source)
	if len(value) == 0 || value[0] != '{' {
		return
	}
	end := bytes.IndexByte(value, '}')
	if end < 0 {
		return
	}
	attrs, ok := parseAttributeList(value[:end+1])
	if !ok {
		return
	}
	for _, a := range attrs {
		img.SetAttribute(a.Name, a.Value)
	}
	if end+1 == len(value) && !next.SoftLineBreak() && !next.HardLineBreak() {
		img.Parent().RemoveChild(img.Parent(), next)
		return
	}
	next.Segment = next.Segment.WithStart(next.Segment.Start + end + 1)
}

// parseAttributeList parses `{ ... }` or `{: ... }` covering all of value.
func parseAttributeList(value []byte) (parser.Attributes, bool) {
	if len(value) < 2 || value[0] != '{' || value[len(value)-1] != '}' {
		return nil, false
	}
	normalized := append([]byte{'{'}, bytes.TrimPrefix(value[1:], []byte(":"))...)
	r := text.NewReader(normalized)
	attrs, ok := parser.ParseAttributes(r)
	if !ok || len(attrs) == 0 {
		return nil, false
	}
	if _, pos := r.Position(); pos.Start != len(normalized) {
		return nil, false
	}
	return attrs, true
}

type attributeListExtension struct{}

// AttributeLists adds attribute lists on images and paragraphs.
var AttributeLists goldmark.Extender = &attributeListExtension{}

func (e *attributeListExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&attributeListTransformer{}, 100),
	))
}
