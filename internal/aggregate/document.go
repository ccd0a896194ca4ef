package aggregate

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"git.home.luguber.info/inful/blogindex/internal/config"
	ferrors "git.home.luguber.info/inful/blogindex/internal/foundation/errors"
)

//go:embed templates/post.html.tmpl
var templateFS embed.FS

//go:embed assets/filter.html
var filterScript string

var postTemplate = template.Must(template.ParseFS(templateFS, "templates/post.html.tmpl"))

// ResolvedPost is the derived record of one post.
type ResolvedPost struct {
	Category        string        `json:"category"`
	Title           string        `json:"title"`
	Date            string        `json:"date"`
	AuthorName      string        `json:"author_name"`
	AuthorAvatar    string        `json:"author_avatar"`
	ReadtimeMinutes int           `json:"readtime_minutes"`
	SnippetHTML     template.HTML `json:"-"`
	LinkPath        string        `json:"link_path"`
	SourcePath      string        `json:"source_path"`

	fragment string
}

func renderFragment(p ResolvedPost) (string, error) {
	var buf bytes.Buffer
	if err := postTemplate.ExecuteTemplate(&buf, "post.html.tmpl", p); err != nil {
		return "", fmt.Errorf("execute post template: %w", err)
	}
	return buf.String(), nil
}

// Category groups the posts of one category in enumeration order.
type Category struct {
	Name  string
	Posts []ResolvedPost
}

// Document is the assembled index page.
type Document struct {
	Page config.PageConfig
	// Posts holds every resolved post in enumeration order.
	Posts []ResolvedPost
	// Skipped holds the failures tolerated under the skip policy.
	Skipped []*ferrors.ClassifiedError
}

// Categories returns the posts grouped by category, categories in
// lexicographic order.
func (d *Document) Categories() []Category {
	index := make(map[string]int)
	var groups []Category
	for _, p := range d.Posts {
		i, ok := index[p.Category]
		if !ok {
			i = len(groups)
			index[p.Category] = i
			groups = append(groups, Category{Name: p.Category})
		}
		groups[i].Posts = append(groups[i].Posts, p)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups
}

// Bytes renders the complete page.
func (d *Document) Bytes() []byte {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "icon: %s\n", d.Page.Icon)
	b.WriteString("---\n")
	fmt.Fprintf(&b, "# %s\n\n", d.Page.Title)

	for _, cat := range d.Categories() {
		fmt.Fprintf(&b, "## %s\n\n", cat.Name)
		fragments := make([]string, 0, len(cat.Posts))
		for _, p := range cat.Posts {
			fragments = append(fragments, p.fragment)
		}
		b.WriteString(strings.Join(fragments, "\n"))
	}

	b.WriteString(filterScript)
	return []byte(b.String())
}
