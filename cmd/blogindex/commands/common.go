package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogindex/internal/aggregate"
	"git.home.luguber.info/inful/blogindex/internal/config"
	ferrors "git.home.luguber.info/inful/blogindex/internal/foundation/errors"
	"git.home.luguber.info/inful/blogindex/internal/logfields"
	"git.home.luguber.info/inful/blogindex/internal/metrics"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config   string           `short:"c" help:"Configuration file path (defaults apply when missing)" default:"blogindex.yaml" env:"BLOGINDEX_CONFIG"`
	Verbose  bool             `short:"v" help:"Enable verbose logging"`
	LogLevel string           `name:"log-level" help:"Log level (debug, info, warn, error)" env:"BLOGINDEX_LOG_LEVEL" default:"info"`
	Version  kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Generate the blog index page (default command)"`
	Discover DiscoverCmd `cmd:"" help:"List the posts that would be indexed without writing"`
	Watch    WatchCmd    `cmd:"" help:"Generate, then regenerate whenever posts or authors change"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.level()}))
	slog.SetDefault(logger)
	return nil
}

func (c *CLI) level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// BuildFlags override configuration values for a single invocation.
type BuildFlags struct {
	DocsDir         string `name:"docs-dir" short:"d" help:"Docs root directory (overrides paths.docs_dir)"`
	Output          string `short:"o" help:"Output file, relative to the docs root unless absolute (overrides paths.output_file)"`
	Mode            string `help:"Build mode: local or deployed (overrides build.mode)"`
	SkipFailures    bool   `name:"skip-failures" help:"Leave failing posts out of the index instead of aborting"`
	MetricsTextfile string `name:"metrics-textfile" help:"Write Prometheus metrics to this file after each run"`
}

// LoadConfig loads the configuration at path and applies the flag overrides.
func LoadConfig(path string, flags BuildFlags) (*config.Config, error) {
	cfg, err := config.LoadOptional(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "configuration could not be loaded").
			Fatal().
			UserAction().
			WithFile(path).
			Build()
	}

	if flags.DocsDir != "" {
		cfg.Paths.DocsDir = flags.DocsDir
	}
	if flags.Output != "" {
		cfg.Paths.OutputFile = flags.Output
	}
	if flags.Mode != "" {
		mode := config.NormalizeBuildMode(flags.Mode)
		if mode == "" {
			return nil, ferrors.ValidationError(fmt.Sprintf("invalid --mode %q (accepted: %s)",
				flags.Mode, strings.Join(config.BuildModeSpellings(), ", "))).Build()
		}
		cfg.Build.Mode = mode
	}
	if flags.SkipFailures {
		cfg.Build.FailurePolicy = config.SkipFailed
	}
	if flags.MetricsTextfile != "" {
		cfg.Metrics.Textfile = flags.MetricsTextfile
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid configuration").
			Fatal().
			UserAction().
			Build()
	}
	return cfg, nil
}

// textfileRunner runs the aggregator and exports metrics after every run
// when a textfile is configured.
type textfileRunner struct {
	agg      *aggregate.Aggregator
	recorder *metrics.PrometheusRecorder
	path     string
	logger   *slog.Logger
}

func newRunner(cfg *config.Config, logger *slog.Logger) *textfileRunner {
	r := &textfileRunner{path: cfg.Metrics.Textfile, logger: logger}
	deps := aggregate.Deps{Logger: logger}
	if r.path != "" {
		r.recorder = metrics.NewPrometheusRecorder(nil)
		deps.Recorder = r.recorder
	}
	r.agg = aggregate.New(cfg, deps)
	return r
}

func (r *textfileRunner) Run(ctx context.Context) (*aggregate.Result, error) {
	res, err := r.agg.Run(ctx)
	if r.recorder != nil {
		if werr := r.recorder.WriteTextfile(r.path); werr != nil {
			r.logger.Warn("Failed to write metrics textfile", logfields.Path(r.path), logfields.Error(werr))
		}
	}
	return res, err
}

func loggerOf(g *Global) *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}
