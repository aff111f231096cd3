package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/recipefeed/cmd/recipefeed/commands"
	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/version"
)

func main() {
	var cli commands.CLI
	global := &commands.Global{Out: os.Stdout}
	parser := kong.Parse(&cli,
		kong.Name("recipefeed"),
		kong.Description("Recipe feed with offline cache fallback, favorites and a meal/diet filter."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
		kong.Bind(global),
	)

	if err := parser.Run(global, &cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
