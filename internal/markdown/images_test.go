package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const localPrefix = "posts/institucional/img/"

func TestRewriteImages(t *testing.T) {
	opts := ImageOptions{TargetPrefix: localPrefix}
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "local rewrite drops existing style",
			input: `<img src="img/cat.png" style="border:1px">`,
			want:  `<img src="posts/institucional/img/cat.png" style="max-width:720px; width:36%;">`,
		},
		{
			name:  "other attributes keep order",
			input: `<p><img src="img/a.png" alt="A cat" title="t"></p>`,
			want:  `<p><img src="posts/institucional/img/a.png" alt="A cat" title="t" style="max-width:720px; width:36%;"></p>`,
		},
		{
			name:  "external src untouched",
			input: `<img alt="x" src="https://example.com/img/a.png">`,
			want:  `<img alt="x" src="https://example.com/img/a.png" style="max-width:720px; width:36%;">`,
		},
		{
			name:  "self closing and quoting",
			input: `<IMG SRC="img/a.png" ALT='say "hi" &amp; go' STYLE="x"/>`,
			want:  `<img src="posts/institucional/img/a.png" alt="say &quot;hi&quot; &amp; go" style="max-width:720px; width:36%;">`,
		},
		{
			name:  "non image markup verbatim",
			input: "<DIV Class=\"x\">Hi &amp; <b>bye</b></DIV>\n<!-- more -->",
			want:  "<DIV Class=\"x\">Hi &amp; <b>bye</b></DIV>\n<!-- more -->",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RewriteImages(tt.input, opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRewriteImages_DeployedAndCustomStyle(t *testing.T) {
	opts := ImageOptions{
		TargetPrefix: "institucional-zensical/posts/institucional/img/",
		MaxWidth:     "600px",
		Width:        "50%",
	}
	got, err := RewriteImages(`<img src="img/cat.png">`, opts)
	require.NoError(t, err)
	assert.Equal(t, `<img src="institucional-zensical/posts/institucional/img/cat.png" style="max-width:600px; width:50%;">`, got)
}

func TestRewriteImages_NoTargetPrefixKeepsSource(t *testing.T) {
	got, err := RewriteImages(`<img src="img/cat.png">`, ImageOptions{})
	require.NoError(t, err)
	assert.Equal(t, `<img src="img/cat.png" style="max-width:720px; width:36%;">`, got)
}

func TestImageOptionsStyle(t *testing.T) {
	assert.Equal(t, "max-width:720px; width:36%;", ImageOptions{}.Style())
}

func TestRewriteImages_KeepsUnfinishedTrailingTag(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"open attributes", "<p>Texto</p>\n<div class=\"x\"", "<p>Texto</p>\n<div class=\"x\""},
		{"bare tag name", "<p>Texto</p>\n<div", "<p>Texto</p>\n<div"},
		{
			"after an image",
			"<img src=\"img/a.png\">\n<span title=\"sem fim",
			"<img src=\"img/a.png\" style=\"max-width:720px; width:36%;\">\n<span title=\"sem fim",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RewriteImages(tt.input, ImageOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
