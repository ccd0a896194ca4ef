package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteMarkdownInHTML(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "no marked element",
			source: "<div>\n**x**\n</div>",
			want:   "<div>\n**x**\n</div>",
		},
		{
			name:   "block on its own lines",
			source: "<div markdown=\"1\">\n**negrito**\n</div>",
			want:   "<div>\n\n**negrito**\n\n</div>\n",
		},
		{
			name:   "other attributes kept",
			source: "<section class=\"box\" markdown=\"block\" id=\"s\">\ntexto\n</section>",
			want:   "<section class=\"box\" id=\"s\">\n\ntexto\n\n</section>\n",
		},
		{
			name:   "single line",
			source: "<div markdown='1'>*x*</div>",
			want:   "<div>\n\n*x*\n\n</div>\n",
		},
		{
			name:   "nested same tag",
			source: "<div markdown=\"1\">\n<div>\ninner\n</div>\n*x*\n</div>\nfim",
			want:   "<div>\n\n<div>\ninner\n</div>\n*x*\n\n</div>\n\nfim",
		},
		{
			name:   "fenced code untouched",
			source: "```\n<div markdown=\"1\">\n```",
			want:   "```\n<div markdown=\"1\">\n```",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RewriteMarkdownInHTML(tt.source))
		})
	}
}
