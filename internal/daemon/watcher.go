package daemon

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/blogindex/internal/logfields"
)

// WatchTargets names what a change watcher reacts to.
type WatchTargets struct {
	// PostsRoot is watched recursively.
	PostsRoot string
	// Files are individual files watched through their parent directory.
	Files []string
	// Ignore lists files whose changes never trigger a rebuild.
	Ignore []string
}

func (t WatchTargets) equal(o WatchTargets) bool {
	same := func(a, b []string) bool {
		return slices.Equal(cleanAll(a), cleanAll(b))
	}
	return absClean(t.PostsRoot) == absClean(o.PostsRoot) && same(t.Files, o.Files) && same(t.Ignore, o.Ignore)
}

func cleanAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, absClean(p))
	}
	return out
}

// changeWatcher filters fsnotify events down to those affecting the index.
type changeWatcher struct {
	fs      *fsnotify.Watcher
	posts   string
	files   map[string]bool
	ignored map[string]bool
}

func newChangeWatcher(targets WatchTargets) (*changeWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}

	w := &changeWatcher{
		fs:      fw,
		posts:   absClean(targets.PostsRoot),
		files:   make(map[string]bool),
		ignored: make(map[string]bool),
	}
	for _, f := range targets.Ignore {
		w.ignored[absClean(f)] = true
	}

	if err := w.addDirsRecursive(w.posts); err != nil {
		_ = fw.Close()
		return nil, err
	}

	dirs := make(map[string]bool)
	for _, f := range targets.Files {
		if f == "" {
			continue
		}
		abs := absClean(f)
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fw.Add(dir); err != nil {
			slog.Debug("Watch add skipped", logfields.Path(dir), logfields.Error(err))
		}
	}
	return w, nil
}

func (w *changeWatcher) Events() <-chan fsnotify.Event { return w.fs.Events }
func (w *changeWatcher) Errors() <-chan error          { return w.fs.Errors }
func (w *changeWatcher) Close() error                  { return w.fs.Close() }

// handle reports whether ev affects the index. New directories under the
// posts root are added to the watch.
func (w *changeWatcher) handle(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if !w.relevant(ev.Name) {
		return false
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	return true
}

// isWatchedFile reports whether path is one of the individually watched files.
func (w *changeWatcher) isWatchedFile(path string) bool {
	return w.files[absClean(path)]
}

func (w *changeWatcher) relevant(path string) bool {
	abs := absClean(path)
	if w.ignored[abs] {
		return false
	}
	if w.files[abs] {
		return true
	}
	rel, err := filepath.Rel(w.posts, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	if rel == "." {
		return true
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if shouldIgnoreEvent(part) {
			return false
		}
	}
	return true
}

func (w *changeWatcher) addDirsRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("watch %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for file names that should not trigger rebuilds.
func shouldIgnoreEvent(base string) bool {
	// Ignore hidden files
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Ignore editor temp/swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db"
}

func absClean(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
