// Package testutil builds blog fixtures for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogindex/internal/authors"
	"git.home.luguber.info/inful/blogindex/internal/config"
)

const (
	// testDirPermissions is the permission mode for creating test directories.
	testDirPermissions = 0o750

	// testFilePermissions is the permission mode for creating test files.
	testFilePermissions = 0o600
)

// SiteBuilder provides a fluent interface for laying out a docs tree and
// the configuration pointing at it.
type SiteBuilder struct {
	t      *testing.T
	config *config.Config
}

// NewSite creates a builder rooted at a fresh temp directory. The posts
// directory exists even when no post is added.
func NewSite(t *testing.T) *SiteBuilder {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.DocsDir = filepath.Join(t.TempDir(), "docs")
	if err := os.MkdirAll(cfg.PostsPath(), testDirPermissions); err != nil {
		t.Fatalf("Failed to create posts dir: %v", err)
	}
	return &SiteBuilder{t: t, config: cfg}
}

// WithPost writes a post at rel, a "/" separated path under the posts root.
func (sb *SiteBuilder) WithPost(rel, content string) *SiteBuilder {
	sb.t.Helper()
	WriteFile(sb.t, filepath.Join(sb.config.PostsPath(), filepath.FromSlash(rel)), content)
	return sb
}

// WithAuthors writes the authors registry.
func (sb *SiteBuilder) WithAuthors(entries map[string]authors.Author) *SiteBuilder {
	sb.t.Helper()
	type entry struct {
		Name   string `yaml:"name,omitempty"`
		Avatar string `yaml:"avatar,omitempty"`
	}
	doc := struct {
		Authors map[string]entry `yaml:"authors"`
	}{Authors: make(map[string]entry, len(entries))}
	for key, a := range entries {
		doc.Authors[key] = entry{Name: a.Name, Avatar: a.Avatar}
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		sb.t.Fatalf("Failed to marshal authors: %v", err)
	}
	WriteFile(sb.t, sb.config.AuthorsPath(), string(data))
	return sb
}

// WithRawAuthors writes content verbatim as the authors registry.
func (sb *SiteBuilder) WithRawAuthors(content string) *SiteBuilder {
	sb.t.Helper()
	WriteFile(sb.t, sb.config.AuthorsPath(), content)
	return sb
}

// WithMode sets the build mode.
func (sb *SiteBuilder) WithMode(mode config.BuildMode) *SiteBuilder {
	sb.config.Build.Mode = mode
	return sb
}

// WithFailurePolicy sets the failure policy.
func (sb *SiteBuilder) WithFailurePolicy(p config.FailurePolicy) *SiteBuilder {
	sb.config.Build.FailurePolicy = p
	return sb
}

// DocsDir returns the docs root.
func (sb *SiteBuilder) DocsDir() string { return sb.config.Paths.DocsDir }

// Build returns the configuration.
func (sb *SiteBuilder) Build() *config.Config {
	return sb.config
}

// BuildAndSave writes the configuration to filePath and returns it.
func (sb *SiteBuilder) BuildAndSave(filePath string) *config.Config {
	sb.t.Helper()
	data, err := yaml.Marshal(sb.config)
	if err != nil {
		sb.t.Fatalf("Failed to marshal config: %v", err)
	}
	WriteFile(sb.t, filePath, string(data))
	return sb.config
}

// WriteFile creates path with content, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), testDirPermissions); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), testFilePermissions); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}
