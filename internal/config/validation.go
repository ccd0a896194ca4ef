package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ValidateConfig validates a normalized configuration with defaults applied.
func ValidateConfig(cfg *Config) error {
	if err := validatePaths(cfg); err != nil {
		return err
	}
	if err := validateBuild(cfg.Build); err != nil {
		return err
	}
	if err := validatePosts(cfg.Posts); err != nil {
		return err
	}
	return validateWatch(cfg.Watch)
}

func validatePaths(cfg *Config) error {
	p := cfg.Paths
	for _, f := range []struct{ name, value string }{
		{"paths.docs_dir", p.DocsDir},
		{"paths.posts_dir", p.PostsDir},
		{"paths.output_file", p.OutputFile},
		{"paths.authors_file", p.AuthorsFile},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%s cannot be empty", f.name)
		}
	}

	// The index must not be discovered as a post on the next run.
	rel, err := filepath.Rel(cfg.PostsPath(), cfg.OutputPath())
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("paths.output_file %s must not be inside paths.posts_dir %s", cfg.OutputPath(), cfg.PostsPath())
	}
	return nil
}

func validateBuild(b BuildConfig) error {
	switch b.Mode {
	case BuildModeLocal, BuildModeDeployed:
	default:
		return fmt.Errorf("invalid build.mode: %s (expected local or deployed)", b.Mode)
	}
	switch b.FailurePolicy {
	case FailFast, SkipFailed:
	default:
		return fmt.Errorf("invalid build.failure_policy: %s (expected fail_fast or skip)", b.FailurePolicy)
	}
	return nil
}

func validatePosts(p PostsConfig) error {
	if p.WordsPerMinute <= 0 {
		return errors.New("posts.words_per_minute must be positive")
	}
	if strings.TrimSpace(p.MoreMarker) == "" {
		return errors.New("posts.more_marker cannot be empty")
	}
	return nil
}

func validateWatch(w WatchConfig) error {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return fmt.Errorf("invalid watch.debounce: %w", err)
	}
	if d < 0 {
		return errors.New("watch.debounce cannot be negative")
	}
	if w.Interval != "" {
		i, err := time.ParseDuration(w.Interval)
		if err != nil {
			return fmt.Errorf("invalid watch.interval: %w", err)
		}
		if i < time.Second {
			return fmt.Errorf("watch.interval %s is below the 1s minimum", i)
		}
	}
	return nil
}

// DebounceDuration returns the parsed watch debounce.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return 300 * time.Millisecond
	}
	return d
}

// IntervalDuration returns the parsed periodic regeneration interval, zero when disabled.
func (w WatchConfig) IntervalDuration() time.Duration {
	if w.Interval == "" {
		return 0
	}
	d, err := time.ParseDuration(w.Interval)
	if err != nil {
		return 0
	}
	return d
}
