package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
)

// FavoritesCmd groups the favorites subcommands.
type FavoritesCmd struct {
	List   FavoritesListCmd   `cmd:"" default:"1" help:"List favorites"`
	Add    FavoritesAddCmd    `cmd:"" help:"Add a recipe from a JSON file or the recipe cache"`
	Remove FavoritesRemoveCmd `cmd:"" help:"Remove one favorite by id"`
	Clear  FavoritesClearCmd  `cmd:"" help:"Remove every favorite"`
}

// FavoritesListCmd implements 'favorites list'.
type FavoritesListCmd struct{}

func (c *FavoritesListCmd) Run(g *Global, root *CLI) error {
	return withRuntime(g, root, func(ctx context.Context, rt *Runtime) error {
		list, err := rt.Service.Favorites(ctx)
		if err != nil {
			return err
		}
		return printJSONLines(g.Out, list)
	})
}

// FavoritesAddCmd implements 'favorites add'. Exactly one of --file or
// --recipe-id selects the recipe.
type FavoritesAddCmd struct {
	File     string `short:"f" type:"existingfile" help:"JSON file holding one recipe" xor:"source" required:""`
	RecipeID int    `name:"recipe-id" help:"Recipe id from the cached recipe list" xor:"source" required:""`
}

func (c *FavoritesAddCmd) Run(g *Global, root *CLI) error {
	return withRuntime(g, root, func(ctx context.Context, rt *Runtime) error {
		result, err := c.resolve(ctx, rt)
		if err != nil {
			return err
		}
		fav, err := rt.Service.AddFavorite(ctx, result)
		if err != nil {
			return err
		}
		return printJSON(g.Out, fav)
	})
}

func (c *FavoritesAddCmd) resolve(ctx context.Context, rt *Runtime) (recipes.Result, error) {
	if c.File != "" {
		data, err := os.ReadFile(c.File)
		if err != nil {
			return recipes.Result{}, errors.WrapError(err, errors.CategoryValidation, "failed to read recipe file").
				WithContext("path", c.File).
				Build()
		}
		var r recipes.Result
		if err := json.Unmarshal(data, &r); err != nil {
			return recipes.Result{}, errors.WrapError(err, errors.CategoryValidation, "invalid recipe file").
				WithContext("path", c.File).
				Build()
		}
		return r, nil
	}

	cached, ok, err := rt.Service.ReadCachedRecipes(ctx)
	if err != nil {
		return recipes.Result{}, err
	}
	if ok {
		for _, r := range cached.Results {
			if r.RecipeID == c.RecipeID {
				return r, nil
			}
		}
	}
	return recipes.Result{}, errors.NotFoundError("recipe not in the cached list").
		WithContext("recipe_id", c.RecipeID).
		Build()
}

// FavoritesRemoveCmd implements 'favorites remove'.
type FavoritesRemoveCmd struct {
	ID int64 `arg:"" help:"Favorite id"`
}

func (c *FavoritesRemoveCmd) Run(g *Global, root *CLI) error {
	return withRuntime(g, root, func(ctx context.Context, rt *Runtime) error {
		if err := rt.Service.RemoveFavorite(ctx, c.ID); err != nil {
			return err
		}
		_, err := fmt.Fprintf(g.Out, "removed favorite %d\n", c.ID)
		return err
	})
}

// FavoritesClearCmd implements 'favorites clear'.
type FavoritesClearCmd struct{}

func (c *FavoritesClearCmd) Run(g *Global, root *CLI) error {
	return withRuntime(g, root, func(ctx context.Context, rt *Runtime) error {
		if err := rt.Service.ClearFavorites(ctx); err != nil {
			return err
		}
		_, err := fmt.Fprintln(g.Out, "removed all favorites")
		return err
	})
}
