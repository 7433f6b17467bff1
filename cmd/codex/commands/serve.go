package commands

import (
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/codex/internal/generator"
	"git.home.luguber.info/inful/codex/internal/metrics"
	"git.home.luguber.info/inful/codex/internal/server"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	SourceFlags `embed:""`

	Addr string `help:"Listen address (default: :8080)" env:"CODEX_ADDR"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	logger := g.logger()
	cfg, opts, err := resolveOptions(root, s.SourceFlags, logger)
	if err != nil {
		return err
	}

	reg := prom.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	gen := generator.New(
		generator.WithLogger(logger),
		generator.WithRecorder(metrics.NewPrometheusRecorder(reg)),
	)

	srv := server.New(gen, server.Config{Options: opts, Registry: reg, Logger: logger})
	return srv.ListenAndServe(g.context(), firstNonEmpty(s.Addr, cfg.Serve.Addr))
}
