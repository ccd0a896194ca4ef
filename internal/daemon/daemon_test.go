package daemon

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogindex/internal/aggregate"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
	delay time.Duration

	mu     sync.Mutex
	active int
	maxCon int
}

func (r *countingRunner) Run(ctx context.Context) (*aggregate.Result, error) {
	r.mu.Lock()
	r.active++
	r.maxCon = max(r.maxCon, r.active)
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.active--
		r.mu.Unlock()
	}()

	r.calls.Add(1)
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	if r.err != nil {
		return nil, r.err
	}
	return &aggregate.Result{RunID: "test", Written: true}, nil
}

func startDaemon(t *testing.T, d *Daemon) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("daemon did not stop")
		}
	})
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, Options{Targets: WatchTargets{PostsRoot: "posts"}})
	require.Error(t, err)

	_, err = New(&countingRunner{}, Options{})
	require.Error(t, err)
}

func TestDaemon_RegeneratesOnChange(t *testing.T) {
	posts := t.TempDir()
	runner := &countingRunner{}
	d, err := New(runner, Options{
		Targets:  WatchTargets{PostsRoot: posts},
		Debounce: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	startDaemon(t, d)

	require.Eventually(t, func() bool { return runner.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	// Give the watcher time to register before writing.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(posts, "a.md"), []byte("# A\n"), 0o644))
	require.Eventually(t, func() bool { return runner.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestDaemon_IgnoresHiddenFiles(t *testing.T) {
	posts := t.TempDir()
	runner := &countingRunner{}
	d, err := New(runner, Options{
		Targets:  WatchTargets{PostsRoot: posts},
		Debounce: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	startDaemon(t, d)

	require.Eventually(t, func() bool { return runner.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(posts, ".draft.md.swp"), []byte("x"), 0o644))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), runner.calls.Load())
}

func TestDaemon_FailuresDoNotStopWatching(t *testing.T) {
	posts := t.TempDir()
	runner := &countingRunner{err: errors.New("boom")}
	d, err := New(runner, Options{
		Targets:  WatchTargets{PostsRoot: posts},
		Debounce: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	startDaemon(t, d)

	require.Eventually(t, func() bool { return runner.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(posts, "a.md"), []byte("# A\n"), 0o644))
	require.Eventually(t, func() bool { return runner.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestDaemon_PeriodicRegeneration(t *testing.T) {
	runner := &countingRunner{}
	d, err := New(runner, Options{
		Targets:  WatchTargets{PostsRoot: t.TempDir()},
		Interval: 30 * time.Millisecond,
	})
	require.NoError(t, err)
	startDaemon(t, d)

	require.Eventually(t, func() bool { return runner.calls.Load() >= 3 }, 3*time.Second, 10*time.Millisecond)
}

func TestDaemon_RunsNeverOverlap(t *testing.T) {
	runner := &countingRunner{delay: 40 * time.Millisecond}
	d, err := New(runner, Options{Targets: WatchTargets{PostsRoot: t.TempDir()}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.worker(ctx)

	for range 10 {
		d.request(TriggerChange)
	}
	require.Eventually(t, func() bool { return runner.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(150 * time.Millisecond)

	// One running plus one pending at most.
	assert.LessOrEqual(t, runner.calls.Load(), int32(2))
	runner.mu.Lock()
	defer runner.mu.Unlock()
	assert.Equal(t, 1, runner.maxCon)
}

func TestDaemon_ReloadOnWatchedFileChange(t *testing.T) {
	dir := t.TempDir()
	posts := filepath.Join(dir, "posts")
	require.NoError(t, os.MkdirAll(posts, 0o755))
	configFile := filepath.Join(dir, "blogindex.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("{}\n"), 0o644))

	first := &countingRunner{}
	second := &countingRunner{}
	d, err := New(first, Options{
		Targets:  WatchTargets{PostsRoot: posts, Files: []string{configFile}},
		Debounce: 20 * time.Millisecond,
		Reload: func() (Runner, WatchTargets, error) {
			return second, WatchTargets{PostsRoot: posts, Files: []string{configFile}}, nil
		},
	})
	require.NoError(t, err)
	startDaemon(t, d)

	require.Eventually(t, func() bool { return first.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(configFile, []byte("page:\n  title: News\n"), 0o644))
	require.Eventually(t, func() bool { return second.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), first.calls.Load())
}

func TestDaemon_ReloadMovesWatchToNewPostsRoot(t *testing.T) {
	dir := t.TempDir()
	oldPosts := filepath.Join(dir, "old")
	newPosts := filepath.Join(dir, "new")
	require.NoError(t, os.MkdirAll(oldPosts, 0o755))
	require.NoError(t, os.MkdirAll(newPosts, 0o755))
	configFile := filepath.Join(dir, "blogindex.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("{}\n"), 0o644))

	first := &countingRunner{}
	second := &countingRunner{}
	d, err := New(first, Options{
		Targets:  WatchTargets{PostsRoot: oldPosts, Files: []string{configFile}},
		Debounce: 20 * time.Millisecond,
		Reload: func() (Runner, WatchTargets, error) {
			return second, WatchTargets{PostsRoot: newPosts, Files: []string{configFile}}, nil
		},
	})
	require.NoError(t, err)
	startDaemon(t, d)

	require.Eventually(t, func() bool { return first.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(configFile, []byte("paths:\n  posts_dir: new\n"), 0o644))
	require.Eventually(t, func() bool { return second.calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(newPosts, "a.md"), []byte("# A\n"), 0o644))
	require.Eventually(t, func() bool { return second.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	settled := second.calls.Load()
	require.NoError(t, os.WriteFile(filepath.Join(oldPosts, "b.md"), []byte("# B\n"), 0o644))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, settled, second.calls.Load())
}

func TestWatchTargets_Equal(t *testing.T) {
	a := WatchTargets{PostsRoot: "posts", Files: []string{"cfg.yaml"}, Ignore: []string{"out.md"}}
	assert.True(t, a.equal(WatchTargets{PostsRoot: "./posts", Files: []string{"cfg.yaml"}, Ignore: []string{"out.md"}}))
	assert.False(t, a.equal(WatchTargets{PostsRoot: "other", Files: a.Files, Ignore: a.Ignore}))
	assert.False(t, a.equal(WatchTargets{PostsRoot: "posts", Files: []string{"cfg.yaml", "authors.yml"}, Ignore: a.Ignore}))
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestDaemon_LogsRunNumbersAndJob(t *testing.T) {
	var logs lockedBuffer
	runner := &countingRunner{}
	d, err := New(runner, Options{
		Targets:  WatchTargets{PostsRoot: t.TempDir()},
		Interval: 30 * time.Millisecond,
		Logger:   slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})
	require.NoError(t, err)
	startDaemon(t, d)

	require.Eventually(t, func() bool { return runner.calls.Load() >= 2 }, 3*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		out := logs.String()
		return strings.Contains(out, `"run":1`) && strings.Contains(out, `"run":2`)
	}, time.Second, 10*time.Millisecond)
	assert.Regexp(t, `"msg":"Periodic regeneration scheduled","job_id":"[0-9a-f-]{36}"`, logs.String())
}
