package app

import (
	"git.home.luguber.info/inful/recipefeed/internal/fetch"
	"git.home.luguber.info/inful/recipefeed/internal/outcome"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
)

// PlainSummaries rebuilds every outcome carrying recipes with markup-free
// summaries. The original outcomes are left untouched.
func PlainSummaries(events []fetch.Event[recipes.FoodRecipe]) []fetch.Event[recipes.FoodRecipe] {
	out := make([]fetch.Event[recipes.FoodRecipe], len(events))
	for i, e := range events {
		if data, ok := e.Outcome.Data(); ok {
			plain := data.WithPlainSummaries()
			if e.Outcome.IsSuccess() {
				e.Outcome = outcome.Success(plain)
			} else {
				e.Outcome = outcome.ErrorWithData(e.Outcome.Message(), plain)
			}
		}
		out[i] = e
	}
	return out
}
