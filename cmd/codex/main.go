package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/codex/cmd/codex/commands"
	"git.home.luguber.info/inful/codex/internal/config"
	ferrors "git.home.luguber.info/inful/codex/internal/foundation/errors"
	"git.home.luguber.info/inful/codex/internal/logfields"
	"git.home.luguber.info/inful/codex/internal/version"
)

func main() {
	// .env files must be loaded before kong resolves env-backed flags.
	loaded, envErr := config.LoadEnvFiles(".")

	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("codex"),
		kong.Description("Assemble markdown files into a single navigable HTML documentation page."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)

	logger := slog.Default()
	for _, path := range loaded {
		logger.Debug("Loaded environment file", logfields.Path(path))
	}
	if envErr != nil {
		logger.Warn("Failed to load environment file", logfields.Error(envErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := parser.Run(&commands.Global{Context: ctx, Logger: logger, Stdout: os.Stdout}, &cli)
	stop()
	ferrors.NewCLIErrorAdapter(cli.Verbose, logger).HandleError(err)
}
