package daemon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldIgnoreEvent(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"post.md", false},
		{".hidden.md", true},
		{"post.md~", true},
		{".post.md.swp", true},
		{"post.md.swx", true},
		{"blog.md.tmp", true},
		{"#post.md#", true},
		{"Thumbs.db", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldIgnoreEvent(tt.name))
		})
	}
}

func TestChangeWatcher_Relevant(t *testing.T) {
	docs := t.TempDir()
	posts := filepath.Join(docs, "blog", "posts")
	require.NoError(t, os.MkdirAll(filepath.Join(posts, "news"), 0o755))
	authorsFile := filepath.Join(docs, "blog", ".authors.yml")
	output := filepath.Join(docs, "blog.md")

	w, err := newChangeWatcher(WatchTargets{
		PostsRoot: posts,
		Files:     []string{authorsFile},
		Ignore:    []string{output},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	assert.True(t, w.relevant(filepath.Join(posts, "news", "a.md")))
	assert.True(t, w.relevant(filepath.Join(posts, "news")))
	assert.True(t, w.relevant(authorsFile), "hidden but explicitly watched")
	assert.True(t, w.isWatchedFile(authorsFile))

	assert.False(t, w.relevant(output))
	assert.False(t, w.relevant(filepath.Join(docs, "blog", "other.yml")))
	assert.False(t, w.relevant(filepath.Join(posts, ".git", "HEAD")))
	assert.False(t, w.relevant(filepath.Join(posts, "news", ".a.md.swp")))
	assert.False(t, w.isWatchedFile(filepath.Join(posts, "news", "a.md")))
}

func TestChangeWatcher_HandleIgnoresChmod(t *testing.T) {
	posts := t.TempDir()
	w, err := newChangeWatcher(WatchTargets{PostsRoot: posts})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	path := filepath.Join(posts, "a.md")
	assert.False(t, w.handle(fsnotify.Event{Name: path, Op: fsnotify.Chmod}))
	assert.True(t, w.handle(fsnotify.Event{Name: path, Op: fsnotify.Write}))
}

func TestNewChangeWatcher_MissingPostsRoot(t *testing.T) {
	_, err := newChangeWatcher(WatchTargets{PostsRoot: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
}
