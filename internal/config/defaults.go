package config

import (
	"git.home.luguber.info/inful/blogindex/internal/markdown"
	"git.home.luguber.info/inful/blogindex/internal/metadata"
)

// Default values. Display fallbacks and image sizing come from the packages
// that apply them.
const (
	DefaultDocsDir        = "./docs"
	DefaultPostsDir       = "blog/posts"
	DefaultOutputFile     = "blog.md"
	DefaultAuthorsFile    = "blog/.authors.yml"
	DefaultSourcePrefix   = markdown.DefaultImageSourcePrefix
	DefaultLocalPrefix    = "posts/institucional/img/"
	DefaultDeployedPrefix = "institucional-zensical/posts/institucional/img/"
	DefaultMaxWidth       = markdown.DefaultImageMaxWidth
	DefaultWidth          = markdown.DefaultImageWidth
	DefaultMoreMarker     = "<!-- more -->"
	DefaultWordsPerMinute = metadata.DefaultWordsPerMinute
	DefaultCategory       = metadata.DefaultCategory
	DefaultTitle          = metadata.DefaultTitle
	DefaultUnknownDate    = metadata.UnknownDate
	DefaultPageTitle      = "Blog"
	DefaultPageIcon       = "lucide/message-square-text"
	DefaultAuthorName     = metadata.DefaultAuthorName
	DefaultAuthorAvatar   = metadata.DefaultAuthorAvatar
	DefaultDebounce       = "300ms"
)

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func applyDefaults(cfg *Config) {
	setDefault(&cfg.Paths.DocsDir, DefaultDocsDir)
	setDefault(&cfg.Paths.PostsDir, DefaultPostsDir)
	setDefault(&cfg.Paths.OutputFile, DefaultOutputFile)
	setDefault(&cfg.Paths.AuthorsFile, DefaultAuthorsFile)

	if cfg.Build.Mode == "" {
		cfg.Build.Mode = BuildModeLocal
	}
	if cfg.Build.FailurePolicy == "" {
		cfg.Build.FailurePolicy = FailFast
	}

	setDefault(&cfg.Images.SourcePrefix, DefaultSourcePrefix)
	setDefault(&cfg.Images.LocalPrefix, DefaultLocalPrefix)
	setDefault(&cfg.Images.DeployedPrefix, DefaultDeployedPrefix)
	setDefault(&cfg.Images.MaxWidth, DefaultMaxWidth)
	setDefault(&cfg.Images.Width, DefaultWidth)

	setDefault(&cfg.Posts.MoreMarker, DefaultMoreMarker)
	if cfg.Posts.WordsPerMinute == 0 {
		cfg.Posts.WordsPerMinute = DefaultWordsPerMinute
	}
	setDefault(&cfg.Posts.DefaultCategory, DefaultCategory)
	setDefault(&cfg.Posts.DefaultTitle, DefaultTitle)
	setDefault(&cfg.Posts.UnknownDate, DefaultUnknownDate)

	setDefault(&cfg.Page.Title, DefaultPageTitle)
	setDefault(&cfg.Page.Icon, DefaultPageIcon)

	setDefault(&cfg.Authors.DefaultName, DefaultAuthorName)
	setDefault(&cfg.Authors.DefaultAvatar, DefaultAuthorAvatar)

	setDefault(&cfg.Watch.Debounce, DefaultDebounce)
}
