package commands

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/recipefeed/internal/daemon"
	"git.home.luguber.info/inful/recipefeed/internal/metrics"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr string `short:"a" help:"Listen address (overrides server.addr)"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	return withRuntime(g, root, func(ctx context.Context, rt *Runtime) error {
		if s.Addr != "" {
			rt.Config.Server.Addr = s.Addr
		}
		d, err := daemon.New(rt.Config, daemon.Options{
			Service:        rt.Service,
			Oracle:         rt.Oracle,
			Scanner:        rt.Scanner,
			Preferences:    rt.Prefs,
			Recorder:       rt.Recorder,
			MetricsHandler: metrics.HTTPHandler(rt.Registry),
			Logger:         g.Logger,
		})
		if err != nil {
			return err
		}
		slog.Info("Starting recipefeed server", slog.String("addr", rt.Config.Server.Addr))
		return d.Run(ctx)
	})
}
