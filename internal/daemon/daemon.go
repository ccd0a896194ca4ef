// Package daemon keeps the blog index current. It regenerates once at
// startup, then on debounced filesystem changes and optionally on a fixed
// interval. Regenerations run one at a time; requests arriving during a run
// collapse into a single follow-up.
package daemon

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"git.home.luguber.info/inful/blogindex/internal/aggregate"
	ferrors "git.home.luguber.info/inful/blogindex/internal/foundation/errors"
	"git.home.luguber.info/inful/blogindex/internal/logfields"
)

// Triggers recorded in logs.
const (
	TriggerStartup  = "startup"
	TriggerChange   = "change"
	TriggerSchedule = "schedule"
	TriggerReload   = "config_reload"
)

// Runner performs one regeneration.
type Runner interface {
	Run(ctx context.Context) (*aggregate.Result, error)
}

// Options configures a Daemon.
type Options struct {
	Targets  WatchTargets
	Debounce time.Duration
	MaxDelay time.Duration
	// Interval enables periodic regeneration when positive.
	Interval time.Duration
	// Reload builds a fresh Runner and the watch targets that go with it
	// after one of the watched Files changed. When nil or failing the current
	// Runner and watcher are kept.
	Reload func() (Runner, WatchTargets, error)
	Logger *slog.Logger
}

// Daemon regenerates the index until its context is canceled.
type Daemon struct {
	opts   Options
	logger *slog.Logger

	mu     sync.Mutex
	runner Runner

	requests     chan string
	retarget     chan WatchTargets
	reloadNeeded atomic.Bool
	runs         atomic.Int64
}

// New returns a Daemon driving runner.
func New(runner Runner, opts Options) (*Daemon, error) {
	if runner == nil {
		return nil, ferrors.ValidationError("runner is required").Build()
	}
	if opts.Targets.PostsRoot == "" {
		return nil, ferrors.ValidationError("posts root is required").Build()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Daemon{
		opts:     opts,
		logger:   opts.Logger,
		runner:   runner,
		requests: make(chan string, 1),
		retarget: make(chan WatchTargets, 1),
	}, nil
}

// Run blocks until ctx is canceled. Failed regenerations are logged and never
// stop the daemon; only a watcher that cannot be set up is an error.
func (d *Daemon) Run(ctx context.Context) error {
	d.regenerate(ctx, TriggerStartup)

	watcher, err := newChangeWatcher(d.opts.Targets)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryWatch, "file watcher could not be started").
			Fatal().
			WithFile(d.opts.Targets.PostsRoot).
			Build()
	}
	defer func() { _ = watcher.Close() }()
	current := d.opts.Targets

	debouncer, err := NewDebouncer(DebouncerConfig{
		QuietWindow: d.opts.Debounce,
		MaxDelay:    d.opts.MaxDelay,
	}, func() { d.request(TriggerChange) })
	if err != nil {
		return err
	}
	defer debouncer.Stop()

	var wg sync.WaitGroup
	workerCtx, stopWorker := context.WithCancel(ctx)
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.worker(workerCtx)
	}()
	defer func() {
		stopWorker()
		wg.Wait()
	}()

	if d.opts.Interval > 0 {
		tk, err := newTicker("periodic-regeneration", d.opts.Interval, d.logger, func() {
			d.request(TriggerSchedule)
		})
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryRuntime, "periodic regeneration could not be scheduled").Build()
		}
		tk.start()
		defer func() { _ = tk.stop() }()
		d.logger.Debug("Periodic regeneration scheduled", slog.String("job_id", tk.jobID))
	}

	d.logger.Info("Watching for changes",
		logfields.Path(d.opts.Targets.PostsRoot),
		slog.Duration("debounce", d.opts.Debounce),
		slog.Duration("interval", d.opts.Interval))

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Stopping watcher")
			return nil
		case ev, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			if !watcher.handle(ev) {
				continue
			}
			if watcher.isWatchedFile(ev.Name) && d.opts.Reload != nil {
				d.reloadNeeded.Store(true)
			}
			debouncer.Trigger()
		case next := <-d.retarget:
			watcher, current = d.rewatch(watcher, current, next)
		case err, ok := <-watcher.Errors():
			if !ok {
				return nil
			}
			d.logger.Warn("watcher error", logfields.Error(err))
		}
	}
}

// request queues a regeneration. With one already queued the request is
// absorbed by it.
func (d *Daemon) request(trigger string) {
	select {
	case d.requests <- trigger:
	default:
	}
}

func (d *Daemon) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case trigger := <-d.requests:
			if d.reloadNeeded.Swap(false) {
				d.reload()
				trigger = TriggerReload
			}
			d.regenerate(ctx, trigger)
		}
	}
}

func (d *Daemon) reload() {
	runner, targets, err := d.opts.Reload()
	if err != nil {
		d.logger.Warn("Configuration reload failed; keeping previous configuration", logfields.Error(err))
		return
	}
	d.mu.Lock()
	d.runner = runner
	d.mu.Unlock()
	d.logger.Info("Configuration reloaded")

	// Only the latest targets matter.
	select {
	case <-d.retarget:
	default:
	}
	d.retarget <- targets
}

// rewatch replaces the watcher when the reloaded targets differ. If the new
// watcher cannot be set up the old one keeps running.
func (d *Daemon) rewatch(watcher *changeWatcher, current, next WatchTargets) (*changeWatcher, WatchTargets) {
	if next.PostsRoot == "" || current.equal(next) {
		return watcher, current
	}
	replacement, err := newChangeWatcher(next)
	if err != nil {
		d.logger.Warn("Watch targets not updated; restart to watch the new paths",
			logfields.Path(next.PostsRoot),
			logfields.Error(err))
		return watcher, current
	}
	_ = watcher.Close()
	d.logger.Info("Watch targets updated", logfields.Path(next.PostsRoot))
	return replacement, next
}

func (d *Daemon) regenerate(ctx context.Context, trigger string) {
	d.mu.Lock()
	runner := d.runner
	d.mu.Unlock()

	run := d.runs.Add(1)
	res, err := runner.Run(ctx)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			d.logger.Debug("Regeneration canceled", logfields.Trigger(trigger))
			return
		}
		attrs := []slog.Attr{logfields.Trigger(trigger), slog.Int64("run", run), logfields.Error(err)}
		if ce, ok := ferrors.AsClassified(err); ok {
			attrs = append(attrs, ce.LogAttrs()...)
		}
		d.logger.LogAttrs(ctx, slog.LevelError, "Regeneration failed", attrs...)
		return
	}
	d.logger.Debug("Regeneration finished",
		logfields.Trigger(trigger),
		slog.Int64("run", run),
		logfields.RunID(res.RunID),
		slog.Bool("written", res.Written))
}
