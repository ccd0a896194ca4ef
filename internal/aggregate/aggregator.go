// Package aggregate turns a tree of markdown posts into the blog index page.
//
// A run loads the authors registry, discovers posts, processes each file
// through a fixed sequence of stages and writes the assembled document. Runs
// are synchronous; the context is checked between files.
package aggregate

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/blogindex/internal/authors"
	"git.home.luguber.info/inful/blogindex/internal/config"
	"git.home.luguber.info/inful/blogindex/internal/docs"
	ferrors "git.home.luguber.info/inful/blogindex/internal/foundation/errors"
	"git.home.luguber.info/inful/blogindex/internal/frontmatter"
	"git.home.luguber.info/inful/blogindex/internal/logfields"
	"git.home.luguber.info/inful/blogindex/internal/markdown"
	"git.home.luguber.info/inful/blogindex/internal/metadata"
	"git.home.luguber.info/inful/blogindex/internal/metrics"
)

// Stage names used in logs, metrics and error context.
const (
	StageLoadAuthors = "load_authors"
	StageDiscover    = "discover"
	StageRead        = "read"
	StageParse       = "parse_front_matter"
	StageClean       = "clean_body"
	StageResolve     = "resolve_metadata"
	StageRender      = "render_excerpt"
	StageFragment    = "render_fragment"
	StageWrite       = "write_output"
)

// Deps are the collaborators of an Aggregator. Zero values are replaced by
// no-op implementations.
type Deps struct {
	Recorder metrics.Recorder
	Logger   *slog.Logger
}

// Aggregator generates the index page described by a configuration.
type Aggregator struct {
	cfg      *config.Config
	renderer *markdown.Renderer
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Result summarizes a completed run.
type Result struct {
	RunID      string
	OutputPath string
	Posts      int
	Categories int
	Skipped    int
	// Written is false when the output already had identical content.
	Written  bool
	Duration time.Duration
}

// New returns an Aggregator for cfg.
func New(cfg *config.Config, deps Deps) *Aggregator {
	if deps.Recorder == nil {
		deps.Recorder = metrics.NoopRecorder{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Aggregator{
		cfg: cfg,
		renderer: markdown.NewRenderer(markdown.Options{Images: markdown.ImageOptions{
			SourcePrefix: cfg.Images.SourcePrefix,
			TargetPrefix: cfg.ImagePrefix(),
			MaxWidth:     cfg.Images.MaxWidth,
			Width:        cfg.Images.Width,
		}}),
		recorder: deps.Recorder,
		logger:   deps.Logger,
	}
}

// Run performs one complete generation and writes the output file. On error
// the output is left untouched.
func (a *Aggregator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := a.logger.With(logfields.RunID(runID))
	log.Info("Generating blog index",
		logfields.Mode(string(a.cfg.Build.Mode)),
		logfields.Path(a.cfg.PostsPath()))

	doc, err := a.collect(ctx, log)
	if err != nil {
		a.finishRun(start, outcomeFor(err))
		return nil, err
	}

	output := a.cfg.OutputPath()
	var written bool
	err = a.timed(StageWrite, metrics.ResultFatal, func() error {
		var werr error
		written, werr = WriteOutput(output, doc.Bytes())
		return werr
	})
	if err != nil {
		a.finishRun(start, metrics.RunFailed)
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "output could not be written").
			Fatal().
			WithFile(output).
			WithStage(StageWrite).
			Build()
	}

	res := &Result{
		RunID:      runID,
		OutputPath: output,
		Posts:      len(doc.Posts),
		Categories: len(doc.Categories()),
		Skipped:    len(doc.Skipped),
		Written:    written,
		Duration:   time.Since(start),
	}

	outcome := metrics.RunSuccess
	if !written {
		outcome = metrics.RunUnchanged
	}
	a.recorder.SetCategories(res.Categories)
	a.recorder.SetLastRun(time.Now())
	a.finishRun(start, outcome)

	log.Info("Blog index generated",
		logfields.Output(output),
		logfields.Posts(res.Posts),
		logfields.Categories(res.Categories),
		logfields.Skipped(res.Skipped),
		slog.Bool("written", written),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return res, nil
}

// Collect loads the authors registry, discovers posts and builds the
// document without writing it.
func (a *Aggregator) Collect(ctx context.Context) (*Document, error) {
	return a.collect(ctx, a.logger)
}

func (a *Aggregator) collect(ctx context.Context, log *slog.Logger) (*Document, error) {
	var dir *authors.Directory
	_ = a.timed(StageLoadAuthors, metrics.ResultFatal, func() error {
		var err error
		dir, err = authors.Load(a.cfg.AuthorsPath())
		if err != nil {
			warning := ferrors.WrapError(err, ferrors.CategoryConfig, "authors registry ignored").
				Warning().
				WithFile(a.cfg.AuthorsPath()).
				WithStage(StageLoadAuthors).
				Build()
			log.LogAttrs(ctx, slog.LevelWarn, "Authors registry ignored",
				append(warning.LogAttrs(), logfields.Error(err))...)
			return nil
		}
		log.Debug("Authors registry loaded",
			logfields.Path(a.cfg.AuthorsPath()),
			slog.Int("authors", dir.Len()))
		return nil
	})

	var files []docs.PostFile
	err := a.timed(StageDiscover, metrics.ResultFatal, func() error {
		var derr error
		files, derr = docs.Discover(a.cfg.PostsPath())
		return derr
	})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "posts could not be discovered").
			Fatal().
			WithFile(a.cfg.PostsPath()).
			WithStage(StageDiscover).
			UserAction().
			Build()
	}

	return a.build(ctx, log, dir, files)
}

// Build processes files in order and assembles the document. Under the
// fail_fast policy the first failing file aborts the build.
func (a *Aggregator) Build(ctx context.Context, dir *authors.Directory, files []docs.PostFile) (*Document, error) {
	return a.build(ctx, a.logger, dir, files)
}

func (a *Aggregator) build(ctx context.Context, log *slog.Logger, dir *authors.Directory, files []docs.PostFile) (*Document, error) {
	resolver := metadata.NewResolver(metadata.Options{
		PostsRoot:         a.cfg.PostsPath(),
		DocsRoot:          a.cfg.Paths.DocsDir,
		WordsPerMinute:    a.cfg.Posts.WordsPerMinute,
		DefaultCategory:   a.cfg.Posts.DefaultCategory,
		DefaultAuthorName: a.cfg.Authors.DefaultName,
		DefaultAvatar:     a.cfg.Authors.DefaultAvatar,
		DefaultTitle:      a.cfg.Posts.DefaultTitle,
		UnknownDate:       a.cfg.Posts.UnknownDate,
	}, dir)

	doc := &Document{Page: a.cfg.Page}
	for i := range files {
		if err := ctx.Err(); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "generation canceled").Build()
		}

		post, err := a.process(resolver, &files[i])
		if err != nil {
			if a.cfg.Build.FailurePolicy != config.SkipFailed {
				return nil, err
			}
			log.LogAttrs(ctx, slog.LevelWarn, "Skipping post",
				append(err.LogAttrs(), logfields.Error(err.Cause()))...)
			doc.Skipped = append(doc.Skipped, err)
			continue
		}

		log.Debug("Processed post",
			logfields.File(post.SourcePath),
			logfields.Category(post.Category),
			slog.Int("readtime", post.ReadtimeMinutes))
		a.recorder.IncPostsRendered(post.Category)
		doc.Posts = append(doc.Posts, post)
	}
	return doc, nil
}

// process runs the per-file stages. The returned error carries the file and
// the failing stage.
func (a *Aggregator) process(resolver *metadata.Resolver, pf *docs.PostFile) (ResolvedPost, *ferrors.ClassifiedError) {
	var (
		raw     []byte
		fm      frontmatter.FrontMatter
		body    string
		cleaned string
		fields  metadata.Fields
		snippet string
	)

	steps := []struct {
		stage string
		run   func() error
	}{
		{StageRead, func() (err error) {
			raw, err = pf.Load()
			return err
		}},
		{StageParse, func() (err error) {
			fm, body, err = frontmatter.Parse(raw)
			return err
		}},
		{StageClean, func() error {
			cleaned = frontmatter.Clean(body)
			return nil
		}},
		{StageResolve, func() error {
			fields = resolver.Resolve(pf.Path, fm, string(raw), cleaned)
			return nil
		}},
		{StageRender, func() (err error) {
			excerpt, _, _ := strings.Cut(cleaned, a.cfg.Posts.MoreMarker)
			snippet, err = a.renderer.Render(strings.TrimSpace(excerpt))
			return err
		}},
	}
	failure := a.postFailureResult()
	for _, step := range steps {
		if err := a.timed(step.stage, failure, step.run); err != nil {
			return ResolvedPost{}, classify(err, pf.Path, step.stage)
		}
	}

	post := ResolvedPost{
		Category:        fields.Category,
		Title:           fields.Title,
		Date:            fields.Date,
		AuthorName:      fields.AuthorName,
		AuthorAvatar:    fields.AuthorAvatar,
		ReadtimeMinutes: fields.ReadtimeMinutes,
		// #nosec G203 -- excerpt HTML is produced by the renderer from local posts
		SnippetHTML: template.HTML(snippet),
		LinkPath:    fields.LinkPath,
		SourcePath:  pf.Path,
	}
	err := a.timed(StageFragment, failure, func() (err error) {
		post.fragment, err = renderFragment(post)
		return err
	})
	if err != nil {
		return ResolvedPost{}, classify(err, pf.Path, StageFragment)
	}
	return post, nil
}

// timed runs fn and records its duration and outcome for stage. A failure is
// counted once, under the given label.
func (a *Aggregator) timed(stage string, failure metrics.ResultLabel, fn func() error) error {
	start := time.Now()
	err := fn()
	a.recorder.ObserveStageDuration(stage, time.Since(start))
	if err != nil {
		a.recorder.IncStageResult(stage, failure)
		return err
	}
	a.recorder.IncStageResult(stage, metrics.ResultSuccess)
	return nil
}

// postFailureResult labels a failing per-post stage: skipped when the
// failure policy drops the post, fatal when it aborts the run.
func (a *Aggregator) postFailureResult() metrics.ResultLabel {
	if a.cfg.Build.FailurePolicy == config.SkipFailed {
		return metrics.ResultSkipped
	}
	return metrics.ResultFatal
}

func (a *Aggregator) finishRun(start time.Time, outcome metrics.RunOutcomeLabel) {
	a.recorder.ObserveRunDuration(time.Since(start))
	a.recorder.IncRunOutcome(outcome)
}

func outcomeFor(err error) metrics.RunOutcomeLabel {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return metrics.RunCanceled
	}
	return metrics.RunFailed
}

func classify(err error, path, stage string) *ferrors.ClassifiedError {
	var b *ferrors.ErrorBuilder
	switch {
	case errors.Is(err, docs.ErrFileReadFailed):
		b = ferrors.WrapError(err, ferrors.CategoryFileSystem, "post could not be read")
	case errors.Is(err, frontmatter.ErrMalformedFrontMatter):
		b = ferrors.WrapError(err, ferrors.CategoryFrontMatter, "front matter could not be parsed").UserAction()
	case errors.Is(err, markdown.ErrRenderFailed):
		b = ferrors.WrapError(err, ferrors.CategoryRender, "excerpt could not be rendered")
	default:
		b = ferrors.WrapError(err, ferrors.CategoryInternal, "post could not be processed")
	}
	return b.Fatal().WithFile(path).WithStage(stage).Build()
}
