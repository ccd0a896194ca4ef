package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/blogindex/internal/config"
	"git.home.luguber.info/inful/blogindex/internal/daemon"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	BuildFlags `embed:""`
	Interval   time.Duration `help:"Also regenerate periodically at this interval (overrides watch.interval)"`
	Debounce   time.Duration `help:"Quiet period before regenerating after a change (overrides watch.debounce)"`
}

func (w *WatchCmd) Run(global *Global, root *CLI) error {
	logger := loggerOf(global)
	load := func() (*config.Config, error) {
		return LoadConfig(root.Config, w.BuildFlags)
	}

	cfg, err := load()
	if err != nil {
		return err
	}

	debounce := cfg.Watch.DebounceDuration()
	if w.Debounce > 0 {
		debounce = w.Debounce
	}
	interval := cfg.Watch.IntervalDuration()
	if w.Interval > 0 {
		interval = w.Interval
	}

	d, err := daemon.New(newRunner(cfg, logger), daemon.Options{
		Targets:  WatchTargets(cfg, root.Config),
		Debounce: debounce,
		Interval: interval,
		Logger:   logger,
		Reload: func() (daemon.Runner, daemon.WatchTargets, error) {
			next, err := load()
			if err != nil {
				return nil, daemon.WatchTargets{}, err
			}
			return newRunner(next, logger), WatchTargets(next, root.Config), nil
		},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return d.Run(ctx)
}

// WatchTargets returns the paths a watcher for cfg reacts to. The output file
// and its temp file are ignored so a run never retriggers itself.
func WatchTargets(cfg *config.Config, configPath string) daemon.WatchTargets {
	files := []string{cfg.AuthorsPath()}
	if configPath != "" {
		files = append(files, configPath)
	}
	out := cfg.OutputPath()
	return daemon.WatchTargets{
		PostsRoot: cfg.PostsPath(),
		Files:     files,
		Ignore:    []string{out, out + ".tmp"},
	}
}
