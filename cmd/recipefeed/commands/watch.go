package commands

import (
	"context"
	"encoding/json"
	"os/signal"
	"sync"
	"syscall"

	"git.home.luguber.info/inful/recipefeed/internal/broadcast"
	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/logfields"
)

// WatchCmd implements the 'watch' command: it follows the outcome events a
// running server publishes to NATS and prints each envelope as a JSON line.
type WatchCmd struct {
	URL string `help:"NATS server URL (overrides events.nats_url)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	url := w.URL
	if url == "" {
		url = cfg.Events.NATSURL
	}
	if url == "" {
		return errors.ConfigError("events.nats_url is not configured").Build()
	}

	conn, err := broadcast.Connect(url)
	if err != nil {
		return err
	}
	defer conn.Close()

	var mu sync.Mutex
	enc := json.NewEncoder(g.Out)
	sub, err := broadcast.Subscribe(conn, cfg.Events.SubjectPrefix, func(_ string, env broadcast.Envelope) {
		mu.Lock()
		defer mu.Unlock()
		if err := enc.Encode(env); err != nil {
			g.Logger.Warn("Writing event failed", logfields.Error(err))
		}
	})
	if err != nil {
		return err
	}
	defer func() { _ = sub.Unsubscribe() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	g.Logger.Info("Watching outcome events", logfields.URL(url))
	<-ctx.Done()
	return nil
}
