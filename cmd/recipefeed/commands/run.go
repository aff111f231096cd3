package commands

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
)

// defaultRuntimeOptions are appended to every OpenRuntime call made by commands;
// tests use it to swap out the network.
var defaultRuntimeOptions []RuntimeOption

// withRuntime loads config, opens a Runtime and runs fn with a context that
// is cancelled on SIGINT/SIGTERM.
func withRuntime(g *Global, root *CLI, fn func(ctx context.Context, rt *Runtime) error) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rt, err := OpenRuntime(ctx, cfg, g.Logger, defaultRuntimeOptions...)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(ctx, rt)
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
