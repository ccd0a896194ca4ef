// Package markdown renders post excerpts to HTML.
//
// HTML elements marked markdown="1" are opened up for markdown first. Goldmark
// then converts the source, with admonition blocks and attribute lists added
// as extensions, and every <img> tag in the result is normalized for the
// configured build mode.
package markdown

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrRenderFailed indicates markdown could not be converted to HTML.
var ErrRenderFailed = errors.New("markdown rendering failed")

// Options configures a Renderer.
type Options struct {
	Images ImageOptions
}

// Renderer converts markdown to HTML. It holds no per-call state and may be
// shared.
type Renderer struct {
	engine goldmark.Markdown
	images ImageOptions
}

// NewRenderer builds a Renderer with the fixed extension profile: tables,
// definition lists, footnotes, strikethrough, admonitions, attribute lists,
// automatic heading ids and raw HTML passthrough.
func NewRenderer(opts Options) *Renderer {
	engine := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.DefinitionList,
			extension.Footnote,
			extension.Strikethrough,
			Admonitions,
			AttributeLists,
		),
		goldmark.WithParserOptions(
			parser.WithAttribute(),
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	return &Renderer{engine: engine, images: opts.Images.withDefaults()}
}

// Render converts source to HTML.
func (r *Renderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(RewriteMarkdownInHTML(source)), &buf); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	out, err := RewriteImages(buf.String(), r.images)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	return out, nil
}
