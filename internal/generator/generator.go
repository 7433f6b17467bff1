// Package generator runs a full documentation generation: discovery,
// assembly, fragment rendering and page templating.
package generator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/codex/internal/docs"
	derrors "git.home.luguber.info/inful/codex/internal/docs/errors"
	"git.home.luguber.info/inful/codex/internal/doctree"
	ferrors "git.home.luguber.info/inful/codex/internal/foundation/errors"
	"git.home.luguber.info/inful/codex/internal/frontmatter"
	"git.home.luguber.info/inful/codex/internal/logfields"
	"git.home.luguber.info/inful/codex/internal/markdown"
	"git.home.luguber.info/inful/codex/internal/metrics"
	"git.home.luguber.info/inful/codex/internal/observability"
	"git.home.luguber.info/inful/codex/internal/page"
	"git.home.luguber.info/inful/codex/internal/render"
)

// Stage names used in logs and metrics.
const (
	StageDiscover   = "discover"
	StageAssemble   = "assemble"
	StageNavigation = "navigation"
	StageBody       = "body"
	StagePage       = "page"
)

// Options are the inputs of one generation run.
type Options struct {
	Root            string
	IgnoreFolders   []string
	Delimiters      frontmatter.Delimiters
	RepoName        string
	RepoDescription string
	CommitHash      string
	RepoURL         string
	// Style names the chroma style; empty selects markdown.DefaultStyle.
	Style   string
	Workers int
	Minify  bool
}

// Result is the output of a successful run.
type Result struct {
	RunID      string
	Files      []string
	Stats      doctree.Stats
	Tree       *doctree.Node
	Navigation string
	Body       string
	HTML       string
}

// Generator runs generations. It holds no state between runs.
type Generator struct {
	logger   *slog.Logger
	recorder metrics.Recorder
	now      func() time.Time
	newID    func() string
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithClock replaces the clock used for the page's generation time.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// New returns a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs every stage for opts. Per-file problems are reported in
// Result.Stats and never fail the run.
func (g *Generator) Generate(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	result := &Result{RunID: g.newID()}
	ctx = observability.WithRunID(ctx, result.RunID)
	observability.Logger(ctx, g.logger).Info("Starting generation", logfields.Path(opts.Root))

	if err := g.run(ctx, opts, result); err != nil {
		g.recorder.IncGenerationOutcome(metrics.ResultFailed)
		g.recorder.ObserveGenerationDuration(time.Since(start))
		observability.Logger(ctx, g.logger).Error("Generation failed", logfields.Error(err))
		return nil, err
	}

	g.recorder.IncGenerationOutcome(metrics.ResultSuccess)
	g.recorder.ObserveGenerationDuration(time.Since(start))
	observability.Logger(ctx, g.logger).Info("Generation complete",
		logfields.Count(result.Stats.Processed),
		slog.Int("skipped", len(result.Stats.Skipped)),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return result, nil
}

func (g *Generator) run(ctx context.Context, opts Options, result *Result) error {
	err := g.stage(ctx, StageDiscover, func(ctx context.Context) error {
		discovery := docs.NewDiscovery(opts.Root, opts.IgnoreFolders, observability.Logger(ctx, g.logger))
		files, err := discovery.Files()
		if err != nil {
			return ClassifyDiscoveryError(err, opts.Root)
		}
		result.Files = files
		observability.Logger(ctx, g.logger).Debug("Discovered markdown files", logfields.Count(len(files)))
		return nil
	})
	if err != nil {
		return err
	}

	err = g.stage(ctx, StageAssemble, func(ctx context.Context) error {
		builder := doctree.NewBuilder(
			doctree.WithDelimiters(opts.Delimiters),
			doctree.WithLogger(observability.Logger(ctx, g.logger)),
			doctree.WithRecorder(g.recorder),
			doctree.WithWorkers(opts.Workers),
		)
		result.Tree, result.Stats = builder.BuildDir(opts.Root, result.Files)

		nodes := 0
		_ = doctree.Walk(result.Tree, func(*doctree.Node) error {
			nodes++
			return nil
		})
		observability.Logger(ctx, g.logger).Debug("Assembled documentation tree",
			slog.Int("nodes", nodes),
			logfields.Count(result.Stats.Processed))
		return nil
	})
	if err != nil {
		return err
	}

	err = g.stage(ctx, StageNavigation, func(context.Context) error {
		result.Navigation = render.Navigation(result.Tree)
		return nil
	})
	if err != nil {
		return err
	}

	err = g.stage(ctx, StageBody, func(context.Context) error {
		style := opts.Style
		if style == "" {
			style = markdown.DefaultStyle
		}
		body := render.Body{
			RepoURL:   opts.RepoURL,
			Converter: markdown.New(markdown.WithHighlighter(markdown.NewChromaHighlighter(style))),
		}
		html, err := body.Render(result.Tree)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryRender, "render body").Build()
		}
		result.Body = html
		return nil
	})
	if err != nil {
		return err
	}

	return g.stage(ctx, StagePage, func(context.Context) error {
		html, err := page.NewRenderer(opts.Minify).Render(page.Document{
			RepoName:        opts.RepoName,
			RepoDescription: opts.RepoDescription,
			CommitHash:      opts.CommitHash,
			RepoURL:         opts.RepoURL,
			GeneratedAt:     g.now(),
			Navigation:      result.Navigation,
			Body:            result.Body,
		})
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryBuild, "render page").Build()
		}
		result.HTML = html
		return nil
	})
}

// stage runs fn under the stage's log context and records its duration and outcome.
func (g *Generator) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		g.recorder.IncStageResult(name, metrics.ResultFailed)
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "generation canceled").
			WithContext("stage", name).
			Build()
	}

	ctx = observability.WithStage(ctx, name)
	stageStart := time.Now()
	err := fn(ctx)
	elapsed := time.Since(stageStart)
	g.recorder.ObserveStageDuration(name, elapsed)
	if err != nil {
		g.recorder.IncStageResult(name, metrics.ResultFailed)
		return err
	}
	g.recorder.IncStageResult(name, metrics.ResultSuccess)
	observability.Logger(ctx, g.logger).Debug("Stage complete",
		logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	return nil
}

// ClassifyDiscoveryError maps discovery failures onto error categories: an
// unusable root is a configuration problem, anything else a filesystem one.
func ClassifyDiscoveryError(err error, root string) error {
	switch {
	case errors.Is(err, derrors.ErrRootNotFound), errors.Is(err, derrors.ErrRootNotDirectory):
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid documentation root").
			WithContext("root", root).
			Build()
	default:
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "discover markdown files").
			WithContext("root", root).
			Build()
	}
}
