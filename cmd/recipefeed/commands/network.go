package commands

import (
	"context"
	"fmt"
)

// NetworkCmd implements the 'network' command. It prints the same notice the
// service shows on a connectivity change, including the one-time back-online
// message after an earlier offline run.
type NetworkCmd struct{}

func (c *NetworkCmd) Run(g *Global, root *CLI) error {
	return withRuntime(g, root, func(_ context.Context, rt *Runtime) error {
		online := rt.Service.Online()
		msg := rt.Service.NetworkStatus(online)
		if msg == "" {
			msg = "online"
		}
		_, err := fmt.Fprintln(g.Out, msg)
		return err
	})
}
