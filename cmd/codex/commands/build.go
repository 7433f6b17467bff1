package commands

import (
	"io"
	"os"

	ferrors "git.home.luguber.info/inful/codex/internal/foundation/errors"
	"git.home.luguber.info/inful/codex/internal/generator"
	"git.home.luguber.info/inful/codex/internal/logfields"
)

// StdoutPath selects standard output for --output.
const StdoutPath = "-"

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	SourceFlags `embed:""`

	Output string `short:"o" help:"Output file; - writes to stdout" default:"-" env:"CODEX_OUTPUT"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	logger := g.logger()
	_, opts, err := resolveOptions(root, b.SourceFlags, logger)
	if err != nil {
		return err
	}

	result, err := generator.New(generator.WithLogger(logger)).Generate(g.context(), opts)
	if err != nil {
		return err
	}

	if err := writeOutput(b.Output, result.HTML, g.stdout()); err != nil {
		return err
	}
	if b.Output != StdoutPath {
		logger.Info("Documentation page written", logfields.Path(b.Output))
	}
	return nil
}

func writeOutput(path, content string, stdout io.Writer) error {
	if path == "" || path == StdoutPath {
		if _, err := io.WriteString(stdout, content); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write page to stdout").Build()
		}
		return nil
	}
	// #nosec G306 -- generated page is public
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write page").
			WithContext("path", path).
			Build()
	}
	return nil
}
