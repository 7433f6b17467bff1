package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/codex/internal/config"
	"git.home.luguber.info/inful/codex/internal/docs"
	ferrors "git.home.luguber.info/inful/codex/internal/foundation/errors"
	"git.home.luguber.info/inful/codex/internal/generator"
	"git.home.luguber.info/inful/codex/internal/gitinfo"
	"git.home.luguber.info/inful/codex/internal/logfields"
)

// Global is shared state passed to every command's Run.
type Global struct {
	Context context.Context
	Logger  *slog.Logger
	// Stdout receives generated output only; logs go to stderr.
	Stdout io.Writer
}

func (g *Global) context() context.Context {
	if g.Context == nil {
		return context.Background()
	}
	return g.Context
}

func (g *Global) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func (g *Global) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: codex.yaml when present)" env:"CODEX_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" default:"withargs" help:"Render the documentation page (default command)"`
	Discover DiscoverCmd `cmd:"" help:"List markdown files in assembly order without rendering"`
	Serve    ServeCmd    `cmd:"" help:"Serve a preview that regenerates the page on every request"`
	New      NewCmd      `cmd:"" help:"Create a markdown document with a metadata block"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// LoadConfig reads the configuration file. An empty path falls back to
// config.DefaultFile in the working directory, or the defaults when that is
// absent too.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		if _, err := os.Stat(config.DefaultFile); errors.Is(err, os.ErrNotExist) {
			return config.Default(), nil
		}
		path = config.DefaultFile
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "load configuration").
			WithContext("path", path).
			Build()
	}
	return cfg, nil
}

// SourceFlags select the documents and describe the repository. Empty flags
// defer to the configuration file, then to the built-in defaults.
type SourceFlags struct {
	RootDirectory   string   `name:"root-directory" short:"r" help:"Directory searched for markdown files (default: .)" env:"CODEX_ROOT_DIRECTORY"`
	RepoName        string   `name:"repo-name" help:"Repository name shown in the page header (default: Documentation)" env:"CODEX_REPO_NAME"`
	RepoDescription string   `name:"repo-description" help:"Repository description shown in the page header" env:"CODEX_REPO_DESCRIPTION"`
	CommitHash      string   `name:"commit-hash" help:"Commit shown in the page header (default: git HEAD, else latest)" env:"CODEX_COMMIT_HASH"`
	RepoURL         string   `name:"repo-url" help:"Repository web URL for commit and source links (default: git origin)" env:"CODEX_REPO_URL"`
	IgnoreFolders   []string `name:"ignore-folders" sep:"," help:"Comma separated folders to skip, added to the built-in list" env:"CODEX_IGNORE_FOLDERS"`
	Prefix          string   `name:"prefix" help:"Opening metadata delimiter (default: ---)" env:"CODEX_FRONT_MATTER_PREFIX"`
	Suffix          string   `name:"suffix" help:"Closing metadata delimiter (default: ---)" env:"CODEX_FRONT_MATTER_SUFFIX"`
	Style           string   `name:"style" help:"Chroma style for code blocks (default: github)" env:"CODEX_STYLE"`
	Workers         int      `name:"workers" help:"Files read concurrently during assembly (default: 4)" env:"CODEX_WORKERS"`
	NoMinify        bool     `name:"no-minify" help:"Write the page without minification" env:"CODEX_NO_MINIFY"`
}

// Apply overlays the non-empty flags onto cfg and validates the result.
func (f SourceFlags) Apply(cfg *config.Config) error {
	cfg.Source.Root = firstNonEmpty(f.RootDirectory, cfg.Source.Root)
	cfg.Repository.Name = firstNonEmpty(f.RepoName, cfg.Repository.Name)
	cfg.Repository.Description = firstNonEmpty(f.RepoDescription, cfg.Repository.Description)
	cfg.Repository.Commit = firstNonEmpty(f.CommitHash, cfg.Repository.Commit)
	cfg.Repository.URL = firstNonEmpty(f.RepoURL, cfg.Repository.URL)
	cfg.FrontMatter.Prefix = firstNonEmpty(f.Prefix, cfg.FrontMatter.Prefix)
	cfg.FrontMatter.Suffix = firstNonEmpty(f.Suffix, cfg.FrontMatter.Suffix)
	cfg.Render.Style = firstNonEmpty(f.Style, cfg.Render.Style)
	if len(f.IgnoreFolders) > 0 {
		cfg.Source.IgnoreFolders = f.IgnoreFolders
	}
	if f.Workers != 0 {
		cfg.Render.Workers = f.Workers
	}
	if f.NoMinify {
		minify := false
		cfg.Render.Minify = &minify
	}
	if err := config.Validate(cfg); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid options").Build()
	}
	return nil
}

// GeneratorOptions translates cfg into a run, resolving the commit and
// repository URL from git when neither flags nor the file set them.
func GeneratorOptions(cfg *config.Config, logger *slog.Logger) generator.Options {
	info := gitinfo.Fill(cfg.Source.Root, gitinfo.Info{
		CommitHash: cfg.Repository.Commit,
		RepoURL:    cfg.Repository.URL,
	}, logger)
	logger.Debug("Resolved repository metadata",
		slog.String("commit", info.CommitHash),
		logfields.URL(info.RepoURL))

	return generator.Options{
		Root:            cfg.Source.Root,
		IgnoreFolders:   docs.MergeIgnoreFolders(cfg.Source.IgnoreFolders),
		Delimiters:      cfg.FrontMatter,
		RepoName:        cfg.Repository.Name,
		RepoDescription: cfg.Repository.Description,
		CommitHash:      info.CommitHash,
		RepoURL:         info.RepoURL,
		Style:           cfg.Render.Style,
		Workers:         cfg.Render.Workers,
		Minify:          cfg.Render.ShouldMinify(),
	}
}

// resolveOptions loads the configuration and applies flags on top.
func resolveOptions(root *CLI, flags SourceFlags, logger *slog.Logger) (*config.Config, generator.Options, error) {
	cfg, err := LoadConfig(root.Config)
	if err != nil {
		return nil, generator.Options{}, err
	}
	if err := flags.Apply(cfg); err != nil {
		return nil, generator.Options{}, err
	}
	return cfg, GeneratorOptions(cfg, logger), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
