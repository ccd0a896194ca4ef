package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables overriding configuration values.
const (
	EnvBuildMode     = "BLOGINDEX_BUILD_MODE"
	EnvDocsDir       = "BLOGINDEX_DOCS_DIR"
	EnvFailurePolicy = "BLOGINDEX_FAILURE_POLICY"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env and .env.local from the working directory.
// Existing process environment variables are not overwritten.
func loadEnvFiles() {
	for _, path := range envFiles {
		if err := godotenv.Load(path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("Failed to load env file", slog.String("path", path), slog.String("error", err.Error()))
			}
			continue
		}
		slog.Debug("Loaded environment variables", slog.String("path", path))
	}
}

// ApplyEnvOverrides copies BLOGINDEX_* environment values onto cfg.
func ApplyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvBuildMode)); v != "" {
		cfg.Build.Mode = BuildMode(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvDocsDir)); v != "" {
		cfg.Paths.DocsDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFailurePolicy)); v != "" {
		cfg.Build.FailurePolicy = FailurePolicy(v)
	}
}
