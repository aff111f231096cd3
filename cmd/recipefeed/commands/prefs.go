package commands

import (
	"context"

	"git.home.luguber.info/inful/recipefeed/internal/preferences"
)

// PrefsCmd groups the preference subcommands.
type PrefsCmd struct {
	Show PrefsShowCmd `cmd:"" default:"1" help:"Print the saved filter"`
	Set  PrefsSetCmd  `cmd:"" help:"Save a new filter and reload the recipe list"`
}

// PrefsShowCmd implements 'prefs show'.
type PrefsShowCmd struct{}

func (c *PrefsShowCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	return printJSON(g.Out, preferences.NewStore(cfg.Preferences.Path).Load())
}

// PrefsSetCmd implements 'prefs set'.
type PrefsSetCmd struct {
	Meal string `arg:"" help:"Meal type, e.g. \"main course\""`
	Diet string `arg:"" help:"Diet type, e.g. \"vegan\""`
}

func (c *PrefsSetCmd) Run(g *Global, root *CLI) error {
	return withRuntime(g, root, func(ctx context.Context, rt *Runtime) error {
		events, err := rt.Service.ApplyFilter(ctx, c.Meal, c.Diet)
		if err != nil {
			return err
		}
		return printJSONLines(g.Out, events)
	})
}
