// Package docs enumerates the markdown posts of a blog.
package docs

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	derrors "git.home.luguber.info/inful/blogindex/internal/docs/errors"
	"git.home.luguber.info/inful/blogindex/internal/logfields"
)

// Re-exported sentinels so callers need a single import.
var (
	ErrPostsRootNotFound = derrors.ErrPostsRootNotFound
	ErrFileReadFailed    = derrors.ErrFileReadFailed
)

// PostFile represents a discovered post.
type PostFile struct {
	Path         string // Path as joined from the posts root
	RelativePath string // Path relative to the posts root, "/" separated
	Section      string // First directory under the posts root, empty at root level
	Name         string // File name without extension
	Extension    string // File extension
	Content      []byte // File content (loaded on demand)
}

// Discover walks postsRoot and returns its markdown files in lexical order.
// Hidden files and directories are skipped.
func Discover(postsRoot string) ([]PostFile, error) {
	info, err := os.Stat(postsRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", derrors.ErrPostsRootNotFound, postsRoot)
		}
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrPostsWalkFailed, postsRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", derrors.ErrPostsRootNotDir, postsRoot)
	}

	var files []PostFile
	err = filepath.WalkDir(postsRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path != postsRoot && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isMarkdownFile(d.Name()) {
			return nil
		}

		relPath, err := filepath.Rel(postsRoot, path)
		if err != nil {
			return fmt.Errorf("%w: %w", derrors.ErrInvalidRelativePath, err)
		}
		relPath = filepath.ToSlash(relPath)

		section := ""
		if i := strings.Index(relPath, "/"); i >= 0 {
			section = relPath[:i]
		}

		files = append(files, PostFile{
			Path:         path,
			RelativePath: relPath,
			Section:      section,
			Name:         strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())),
			Extension:    filepath.Ext(d.Name()),
		})
		slog.Debug("Discovered post", logfields.File(relPath), slog.String("section", section))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrPostsWalkFailed, postsRoot, err)
	}

	return files, nil
}

// Load reads the post content. A file that vanished since discovery yields
// ErrFileReadFailed.
func (pf *PostFile) Load() ([]byte, error) {
	if pf.Content != nil {
		return pf.Content, nil
	}

	content, err := os.ReadFile(pf.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrFileReadFailed, pf.Path, err)
	}

	pf.Content = content
	return content, nil
}

// isMarkdownFile checks if a file is a markdown post
func isMarkdownFile(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".md")
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
