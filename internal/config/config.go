package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file looked up when none is given.
const DefaultConfigFile = "blogindex.yaml"

// ErrConfigNotFound indicates an explicitly requested configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Config represents the application configuration
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	Build   BuildConfig   `yaml:"build"`
	Images  ImagesConfig  `yaml:"images"`
	Posts   PostsConfig   `yaml:"posts"`
	Page    PageConfig    `yaml:"page"`
	Authors AuthorsConfig `yaml:"authors"`
	Watch   WatchConfig   `yaml:"watch"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// PathsConfig locates inputs and the output. Paths other than DocsDir are
// relative to DocsDir unless absolute.
type PathsConfig struct {
	DocsDir     string `yaml:"docs_dir"`
	PostsDir    string `yaml:"posts_dir"`
	OutputFile  string `yaml:"output_file"`
	AuthorsFile string `yaml:"authors_file"`
}

// BuildConfig controls a generation run.
type BuildConfig struct {
	Mode          BuildMode     `yaml:"mode"`
	FailurePolicy FailurePolicy `yaml:"failure_policy"`
}

// ImagesConfig controls image path rewriting and sizing.
type ImagesConfig struct {
	SourcePrefix   string `yaml:"source_prefix"`
	LocalPrefix    string `yaml:"local_prefix"`
	DeployedPrefix string `yaml:"deployed_prefix"`
	MaxWidth       string `yaml:"max_width"`
	Width          string `yaml:"width"`
}

// PostsConfig controls excerpt and metadata derivation.
type PostsConfig struct {
	MoreMarker      string `yaml:"more_marker"`
	WordsPerMinute  int    `yaml:"words_per_minute"`
	DefaultCategory string `yaml:"default_category"`
	DefaultTitle    string `yaml:"default_title"`
	UnknownDate     string `yaml:"unknown_date"`
}

// PageConfig controls the generated index header.
type PageConfig struct {
	Title string `yaml:"title"`
	Icon  string `yaml:"icon"`
}

// AuthorsConfig holds placeholders for unknown authors.
type AuthorsConfig struct {
	DefaultName   string `yaml:"default_name"`
	DefaultAvatar string `yaml:"default_avatar"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
	Interval string `yaml:"interval,omitempty"`
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Load loads configuration from the specified file. A missing file is an error.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := decode(data, &cfg); err != nil {
		return nil, err
	}
	return finalize(&cfg)
}

// LoadOptional loads configPath when it exists and otherwise returns the
// defaults, still honoring environment overrides.
func LoadOptional(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		loadEnvFiles()
		slog.Debug("No configuration file, using defaults", slog.String("path", configPath))
		return finalize(&Config{})
	}
	return Load(configPath)
}

// Default returns the default configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func decode(data []byte, cfg *Config) error {
	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

func finalize(cfg *Config) (*Config, error) {
	ApplyEnvOverrides(cfg)

	// Normalization pass (case-fold enumerations, bounds, early coercions)
	res := NormalizeConfig(cfg)
	for _, w := range res.Warnings {
		slog.Warn("config normalization", slog.String("detail", w))
	}

	// Apply defaults (after normalization so canonical values drive defaults)
	applyDefaults(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// PostsPath returns the posts directory.
func (c *Config) PostsPath() string { return c.resolve(c.Paths.PostsDir) }

// OutputPath returns the generated index file.
func (c *Config) OutputPath() string { return c.resolve(c.Paths.OutputFile) }

// AuthorsPath returns the authors registry file.
func (c *Config) AuthorsPath() string { return c.resolve(c.Paths.AuthorsFile) }

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.Paths.DocsDir, p)
}

// ImagePrefix returns the src prefix images are rewritten to in the configured mode.
func (c *Config) ImagePrefix() string {
	if c.Build.Mode == BuildModeDeployed {
		return c.Images.DeployedPrefix
	}
	return c.Images.LocalPrefix
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := "# blogindex configuration. Paths other than docs_dir are relative to docs_dir.\n" +
		"# ${VAR} references are expanded from the environment and .env files.\n"
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
