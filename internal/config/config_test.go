package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogindex/internal/markdown"
	"git.home.luguber.info/inful/blogindex/internal/metadata"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blogindex.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvBuildMode, EnvDocsDir, EnvFailurePolicy} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, BuildModeLocal, cfg.Build.Mode)
	assert.Equal(t, FailFast, cfg.Build.FailurePolicy)
	assert.Equal(t, filepath.Join("docs", "blog", "posts"), cfg.PostsPath())
	assert.Equal(t, filepath.Join("docs", "blog.md"), cfg.OutputPath())
	assert.Equal(t, filepath.Join("docs", "blog", ".authors.yml"), cfg.AuthorsPath())
	assert.Equal(t, "posts/institucional/img/", cfg.ImagePrefix())
	assert.Equal(t, 200, cfg.Posts.WordsPerMinute)
	assert.Equal(t, "<!-- more -->", cfg.Posts.MoreMarker)
	assert.Equal(t, "lucide/message-square-text", cfg.Page.Icon)
	assert.Equal(t, "300ms", cfg.Watch.Debounce)
	assert.Zero(t, cfg.Watch.IntervalDuration())
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	t.Setenv("BLOG_ROOT", "/srv/site/docs")
	path := writeConfig(t, `
paths:
  docs_dir: ${BLOG_ROOT}
  output_file: /tmp/out/blog.md
build:
  mode: Deployed
  failure_policy: skip
posts:
  words_per_minute: 250
watch:
  interval: 10m
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/site/docs", cfg.Paths.DocsDir)
	assert.Equal(t, filepath.Clean("/tmp/out/blog.md"), cfg.OutputPath())
	assert.Equal(t, filepath.Join("/srv/site/docs", "blog", "posts"), cfg.PostsPath())
	assert.Equal(t, BuildModeDeployed, cfg.Build.Mode)
	assert.Equal(t, "institucional-zensical/posts/institucional/img/", cfg.ImagePrefix())
	assert.Equal(t, SkipFailed, cfg.Build.FailurePolicy)
	assert.Equal(t, 250, cfg.Posts.WordsPerMinute)
	assert.Equal(t, "10m0s", cfg.Watch.IntervalDuration().String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBuildMode, "deployed")
	t.Setenv(EnvDocsDir, "site")
	path := writeConfig(t, "build:\n  mode: local\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BuildModeDeployed, cfg.Build.Mode)
	assert.Equal(t, "site", cfg.Paths.DocsDir)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigNotFound))

	_, err = Load(writeConfig(t, "paths:\n  unknown_key: x\n"))
	assert.ErrorContains(t, err, "unmarshal")

	_, err = Load(writeConfig(t, "posts:\n  more_marker: '  '\n"))
	assert.ErrorContains(t, err, "more_marker")

	_, err = Load(writeConfig(t, "watch:\n  interval: 10ms\n"))
	assert.ErrorContains(t, err, "watch.interval")

	_, err = Load(writeConfig(t, "watch:\n  debounce: soon\n"))
	assert.ErrorContains(t, err, "watch.debounce")

	_, err = Load(writeConfig(t, "paths:\n  output_file: blog/posts/index.md\n"))
	assert.ErrorContains(t, err, "must not be inside")
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOptional(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = LoadOptional(writeConfig(t, "page:\n  title: Notícias\n"))
	require.NoError(t, err)
	assert.Equal(t, "Notícias", cfg.Page.Title)
}

func TestNormalizeConfig(t *testing.T) {
	cfg := &Config{
		Build:  BuildConfig{Mode: " PROD ", FailurePolicy: "Skip-Failed"},
		Posts:  PostsConfig{WordsPerMinute: -3},
		Images: ImagesConfig{LocalPrefix: "assets/img"},
	}
	res := NormalizeConfig(cfg)
	assert.Equal(t, BuildModeDeployed, cfg.Build.Mode)
	assert.Equal(t, SkipFailed, cfg.Build.FailurePolicy)
	assert.Equal(t, 0, cfg.Posts.WordsPerMinute)
	assert.Equal(t, "assets/img/", cfg.Images.LocalPrefix)
	assert.Len(t, res.Warnings, 4)
}

func TestNormalizeConfigUnknowns(t *testing.T) {
	cfg := &Config{Build: BuildConfig{Mode: "gibberish", FailurePolicy: "spiral"}}
	res := NormalizeConfig(cfg)
	assert.Equal(t, BuildModeLocal, cfg.Build.Mode)
	assert.Equal(t, FailFast, cfg.Build.FailurePolicy)
	assert.Len(t, res.Warnings, 2)
}

func TestInit(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "blogindex.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	err = Init(path, false)
	assert.ErrorContains(t, err, "already exists")
	assert.NoError(t, Init(path, true))
}

func TestDefaultsFollowRendererAndResolver(t *testing.T) {
	cfg := Default()
	assert.Equal(t, metadata.DefaultCategory, cfg.Posts.DefaultCategory)
	assert.Equal(t, metadata.DefaultTitle, cfg.Posts.DefaultTitle)
	assert.Equal(t, metadata.UnknownDate, cfg.Posts.UnknownDate)
	assert.Equal(t, metadata.DefaultWordsPerMinute, cfg.Posts.WordsPerMinute)
	assert.Equal(t, metadata.DefaultAuthorName, cfg.Authors.DefaultName)
	assert.Equal(t, metadata.DefaultAuthorAvatar, cfg.Authors.DefaultAvatar)

	images := markdown.ImageOptions{MaxWidth: cfg.Images.MaxWidth, Width: cfg.Images.Width}
	assert.Equal(t, markdown.ImageOptions{}.Style(), images.Style())
	assert.Equal(t, markdown.DefaultImageSourcePrefix, cfg.Images.SourcePrefix)
}

func TestBuildModeSpellings(t *testing.T) {
	assert.Equal(t, []string{"debug", "deploy", "deployed", "dev", "local", "prod", "production"}, BuildModeSpellings())
}
