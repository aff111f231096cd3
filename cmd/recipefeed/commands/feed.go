package commands

import (
	"context"

	"git.home.luguber.info/inful/recipefeed/internal/app"
)

// RecipesCmd implements the 'recipes' command.
type RecipesCmd struct {
	Refresh bool `short:"r" help:"Fetch from the remote API even when a cached list exists"`
	Plain   bool `help:"Strip markup from recipe summaries"`
}

func (c *RecipesCmd) Run(g *Global, root *CLI) error {
	return withRuntime(g, root, func(ctx context.Context, rt *Runtime) error {
		events := rt.Service.LoadRecipes(ctx, c.Refresh)
		if c.Plain {
			events = app.PlainSummaries(events)
		}
		return printJSONLines(g.Out, events)
	})
}

// SearchCmd implements the 'search' command.
type SearchCmd struct {
	Query []string `arg:"" help:"Search text"`
	Plain bool     `help:"Strip markup from recipe summaries"`
}

func (c *SearchCmd) Run(g *Global, root *CLI) error {
	return withRuntime(g, root, func(ctx context.Context, rt *Runtime) error {
		events, err := rt.Service.SearchRecipes(ctx, joinArgs(c.Query))
		if err != nil {
			return err
		}
		if c.Plain {
			events = app.PlainSummaries(events)
		}
		return printJSONLines(g.Out, events)
	})
}

// JokeCmd implements the 'joke' command.
type JokeCmd struct{}

func (c *JokeCmd) Run(g *Global, root *CLI) error {
	return withRuntime(g, root, func(ctx context.Context, rt *Runtime) error {
		return printJSONLines(g.Out, rt.Service.GetFoodJoke(ctx))
	})
}
