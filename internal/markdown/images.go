package markdown

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Image defaults.
const (
	DefaultImageSourcePrefix = "img/"
	DefaultImageMaxWidth     = "720px"
	DefaultImageWidth        = "36%"
)

// ImageOptions controls <img> normalization.
type ImageOptions struct {
	// SourcePrefix is the src prefix that gets replaced.
	SourcePrefix string
	// TargetPrefix replaces SourcePrefix. Empty leaves src untouched.
	TargetPrefix string
	MaxWidth     string
	Width        string
}

func (o ImageOptions) withDefaults() ImageOptions {
	if o.SourcePrefix == "" {
		o.SourcePrefix = DefaultImageSourcePrefix
	}
	if o.MaxWidth == "" {
		o.MaxWidth = DefaultImageMaxWidth
	}
	if o.Width == "" {
		o.Width = DefaultImageWidth
	}
	return o
}

// Style returns the inline style appended to every image.
func (o ImageOptions) Style() string {
	o = o.withDefaults()
	return "max-width:" + o.MaxWidth + "; width:" + o.Width + ";"
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")

// RewriteImages rewrites every <img> tag in fragment: a src starting with the
// source prefix gets the target prefix, any style attribute is dropped and
// the fixed sizing style is appended after the remaining attributes. All
// other markup is copied byte for byte.
func RewriteImages(fragment string, opts ImageOptions) (string, error) {
	opts = opts.withDefaults()
	style := opts.Style()

	var out strings.Builder
	out.Grow(len(fragment) + 64)

	z := html.NewTokenizer(strings.NewReader(fragment))
	consumed := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			// A tag left open at the end of the input is kept as written.
			out.WriteString(fragment[consumed:])
			return out.String(), nil
		}
		// Token lower-cases names inside the tokenizer buffer, so Raw is copied first.
		raw := string(z.Raw())
		consumed += len(raw)
		if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			if tok := z.Token(); tok.Data == "img" {
				writeImage(&out, tok.Attr, opts, style)
				continue
			}
		}
		out.WriteString(raw)
	}
}

func writeImage(out *strings.Builder, attrs []html.Attribute, opts ImageOptions, style string) {
	out.WriteString("<img")
	for _, a := range attrs {
		if a.Key == "style" {
			continue
		}
		val := a.Val
		if a.Key == "src" && opts.TargetPrefix != "" && strings.HasPrefix(val, opts.SourcePrefix) {
			val = opts.TargetPrefix + strings.TrimPrefix(val, opts.SourcePrefix)
		}
		out.WriteString(" " + a.Key + `="` + attrEscaper.Replace(val) + `"`)
	}
	out.WriteString(` style="` + style + `">`)
}
