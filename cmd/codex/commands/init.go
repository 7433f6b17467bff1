package commands

import (
	"fmt"
	"io"

	"git.home.luguber.info/inful/codex/internal/config"
	ferrors "git.home.luguber.info/inful/codex/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	return RunInit(g.stdout(), firstNonEmpty(root.Config, config.DefaultFile), i.Force)
}

// RunInit writes an example configuration to configPath.
func RunInit(out io.Writer, configPath string, force bool) error {
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "initialize configuration").
			WithContext("path", configPath).
			Build()
	}
	_, _ = fmt.Fprintln(out, "initialized successfully")
	return nil
}
