package markdown

import (
	"regexp"
	"strings"
)

var (
	htmlOpenTag   = regexp.MustCompile(`^( {0,3})(<([A-Za-z][A-Za-z0-9-]*)(?:\s[^>]*)?>)(.*)$`)
	markdownAttr  = regexp.MustCompile(`\s+markdown\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>"']+)`)
	fenceOpenLine = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")
)

type htmlContainer struct {
	tag   *regexp.Regexp
	depth int
}

// htmlBlockRewriter tracks the containers opened with a markdown attribute
// that are still waiting for their closing tag.
type htmlBlockRewriter struct {
	out   []string
	open  []*htmlContainer
	fence string
}

// RewriteMarkdownInHTML prepares HTML elements carrying markdown="1" so
// their content is parsed as markdown. The attribute is dropped, and the
// opening and matching closing tags are moved onto their own lines with a
// blank line between tag and content.
func RewriteMarkdownInHTML(source string) string {
	if !strings.Contains(source, "markdown") {
		return source
	}
	rw := &htmlBlockRewriter{}
	for _, line := range strings.Split(source, "\n") {
		rw.line(line)
	}
	return strings.Join(rw.out, "\n")
}

func (rw *htmlBlockRewriter) line(line string) {
	if rw.fence != "" {
		if strings.HasPrefix(strings.TrimSpace(line), rw.fence) {
			rw.fence = ""
		}
		rw.out = append(rw.out, line)
		return
	}
	if m := fenceOpenLine.FindStringSubmatch(line); m != nil {
		rw.fence = m[1]
		rw.out = append(rw.out, line)
		return
	}

	for {
		if m := htmlOpenTag.FindStringSubmatch(line); m != nil && markdownAttr.MatchString(m[2]) {
			rw.out = append(rw.out, m[1]+markdownAttr.ReplaceAllString(m[2], ""), "")
			rw.open = append(rw.open, &htmlContainer{
				tag:   regexp.MustCompile(`(?i)<(/?)` + regexp.QuoteMeta(m[3]) + `(?:\s[^>]*)?>`),
				depth: 1,
			})
			line = m[4]
			if strings.TrimSpace(line) == "" {
				return
			}
			continue
		}
		if len(rw.open) == 0 {
			rw.out = append(rw.out, line)
			return
		}

		top := rw.open[len(rw.open)-1]
		start, end := -1, 0
		for _, loc := range top.tag.FindAllStringSubmatchIndex(line, -1) {
			if loc[3] > loc[2] {
				top.depth--
				if top.depth == 0 {
					start, end = loc[0], loc[1]
					break
				}
				continue
			}
			top.depth++
		}
		if start < 0 {
			rw.out = append(rw.out, line)
			return
		}

		if strings.TrimSpace(line[:start]) != "" {
			rw.out = append(rw.out, line[:start])
		}
		rw.out = append(rw.out, "", line[start:end], "")
		rw.open = rw.open[:len(rw.open)-1]
		line = line[end:]
		if strings.TrimSpace(line) == "" {
			return
		}
	}
}
