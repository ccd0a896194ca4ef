// Package metadata derives the display fields of a blog post from its front
// matter, body and location. Every field has a fallback; nothing here fails.
package metadata

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/blogindex/internal/authors"
	"git.home.luguber.info/inful/blogindex/internal/frontmatter"
)

// Default display values.
const (
	DefaultWordsPerMinute = 200
	DefaultCategory       = "Geral"
	DefaultAuthorName     = "Autor Desconhecido"
	DefaultAuthorAvatar   = "https://via.placeholder.com/50"
	DefaultTitle          = "Título sem nome"
	UnknownDate           = "Data desconhecida"
)

// Options configures a Resolver.
type Options struct {
	// PostsRoot is the directory categories are derived from.
	PostsRoot string
	// DocsRoot is the directory link paths are relative to.
	DocsRoot string

	WordsPerMinute    int
	DefaultCategory   string
	DefaultAuthorName string
	DefaultAvatar     string
	DefaultTitle      string
	UnknownDate       string
}

func (o Options) withDefaults() Options {
	if o.WordsPerMinute <= 0 {
		o.WordsPerMinute = DefaultWordsPerMinute
	}
	if o.DefaultCategory == "" {
		o.DefaultCategory = DefaultCategory
	}
	if o.DefaultAuthorName == "" {
		o.DefaultAuthorName = DefaultAuthorName
	}
	if o.DefaultAvatar == "" {
		o.DefaultAvatar = DefaultAuthorAvatar
	}
	if o.DefaultTitle == "" {
		o.DefaultTitle = DefaultTitle
	}
	if o.UnknownDate == "" {
		o.UnknownDate = UnknownDate
	}
	return o
}

// Resolver derives post fields. It is safe for concurrent use once built.
type Resolver struct {
	opts    Options
	authors *authors.Directory
}

// NewResolver returns a Resolver. A nil directory behaves as an empty one.
func NewResolver(opts Options, dir *authors.Directory) *Resolver {
	if dir == nil {
		dir = authors.Empty()
	}
	return &Resolver{opts: opts.withDefaults(), authors: dir}
}

// Fields is the set of values derived for one post.
type Fields struct {
	Title           string
	Date            string
	AuthorName      string
	AuthorAvatar    string
	ReadtimeMinutes int
	Category        string
	LinkPath        string
}

// Resolve derives all fields of the post at path. raw is the file content as
// read from disk and cleaned the body after residue removal.
func (r *Resolver) Resolve(path string, fm frontmatter.FrontMatter, raw, cleaned string) Fields {
	name, avatar := r.Author(fm)
	return Fields{
		Title:           r.Title(fm, cleaned),
		Date:            r.FormatDate(fm),
		AuthorName:      name,
		AuthorAvatar:    avatar,
		ReadtimeMinutes: r.Readtime(fm, raw, cleaned),
		Category:        r.Category(path),
		LinkPath:        r.LinkPath(path),
	}
}

// AuthorKey returns the "author" string, else the first "authors" entry.
func AuthorKey(fm frontmatter.FrontMatter) string {
	if key, ok := fm.String("author"); ok {
		return key
	}
	if list := fm.Sequence("authors"); len(list) > 0 {
		return list[0]
	}
	return ""
}

// Author returns the display name and avatar for the post's author.
func (r *Resolver) Author(fm frontmatter.FrontMatter) (name, avatar string) {
	name, avatar = r.opts.DefaultAuthorName, r.opts.DefaultAvatar
	key := AuthorKey(fm)
	if key == "" {
		return name, avatar
	}
	entry, ok := r.authors.Lookup(key)
	if !ok {
		return name, avatar
	}
	if entry.Name != "" {
		name = entry.Name
	}
	if entry.Avatar != "" {
		avatar = entry.Avatar
	}
	return name, avatar
}

// Title returns the "title" field, else the first level-1 heading of body.
func (r *Resolver) Title(fm frontmatter.FrontMatter, body string) string {
	if title, ok := fm.String("title"); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	if m := h1Pattern.FindStringSubmatch(body); m != nil {
		if title := strings.TrimSpace(m[1]); title != "" {
			return title
		}
	}
	return r.opts.DefaultTitle
}

// Category returns the capitalized first directory under the posts root, or
// the default category for files placed directly in it.
func (r *Resolver) Category(path string) string {
	rel, err := filepath.Rel(r.opts.PostsRoot, path)
	if err != nil {
		return r.opts.DefaultCategory
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 || parts[0] == ".." || parts[0] == "" {
		return r.opts.DefaultCategory
	}
	return Capitalize(parts[0])
}

// LinkPath returns path relative to the docs root with "/" separators and no
// extension.
func (r *Resolver) LinkPath(path string) string {
	rel, err := filepath.Rel(r.opts.DocsRoot, path)
	if err != nil {
		rel = path
	}
	rel = strings.ReplaceAll(filepath.ToSlash(rel), `\`, "/")
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}
