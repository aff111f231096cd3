package classify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/recipefeed/internal/outcome"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
	"git.home.luguber.info/inful/recipefeed/internal/remote"
)

func recipeBody(titles ...string) *recipes.FoodRecipe {
	body := recipes.FoodRecipe{Results: []recipes.Result{}}
	for i, title := range titles {
		body.Results = append(body.Results, recipes.Result{RecipeID: i + 1, Title: title})
	}
	return &body
}

func TestClassifyScenarios(t *testing.T) {
	tests := []struct {
		name        string
		raw         remote.RawResponse[recipes.FoodRecipe]
		listBearing bool
		wantSuccess bool
		wantMessage string
	}{
		{
			name:        "empty list on list dataset",
			raw:         remote.RawResponse[recipes.FoodRecipe]{StatusCode: 200, Success: true, Message: "OK", Body: recipeBody()},
			listBearing: true,
			wantMessage: "Recipes not found.",
		},
		{
			name:        "quota exhausted",
			raw:         remote.RawResponse[recipes.FoodRecipe]{StatusCode: 402, Message: "Payment Required"},
			listBearing: true,
			wantMessage: "API Key Limited.",
		},
		{
			name:        "populated list",
			raw:         remote.RawResponse[recipes.FoodRecipe]{StatusCode: 200, Success: true, Message: "OK", Body: recipeBody("R1", "R2")},
			listBearing: true,
			wantSuccess: true,
		},
		{
			name:        "timeout wins over 402",
			raw:         remote.RawResponse[recipes.FoodRecipe]{StatusCode: 402, Message: "read timeout"},
			listBearing: true,
			wantMessage: "Timeout",
		},
		{
			name:        "timeout match is case-sensitive",
			raw:         remote.RawResponse[recipes.FoodRecipe]{StatusCode: 504, Message: "Gateway Timeout"},
			listBearing: true,
			wantMessage: "Gateway Timeout",
		},
		{
			name:        "402 wins over empty list",
			raw:         remote.RawResponse[recipes.FoodRecipe]{StatusCode: 402, Success: true, Body: recipeBody()},
			listBearing: true,
			wantMessage: "API Key Limited.",
		},
		{
			name:        "empty list ignored when not list-bearing",
			raw:         remote.RawResponse[recipes.FoodRecipe]{StatusCode: 200, Success: true, Body: recipeBody()},
			wantSuccess: true,
		},
		{
			name:        "success without body",
			raw:         remote.RawResponse[recipes.FoodRecipe]{StatusCode: 200, Success: true, Message: "OK"},
			listBearing: true,
			wantMessage: "Malformed success response",
		},
		{
			name:        "unclassified failure keeps raw message",
			raw:         remote.RawResponse[recipes.FoodRecipe]{StatusCode: 500, Message: "Internal Server Error"},
			listBearing: true,
			wantMessage: "Internal Server Error",
		},
		{
			name:        "empty list on failed response",
			raw:         remote.RawResponse[recipes.FoodRecipe]{StatusCode: 404, Message: "Not Found", Body: recipeBody()},
			listBearing: true,
			wantMessage: "Recipes not found.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.raw, tt.listBearing)
			if tt.wantSuccess {
				require.True(t, got.IsSuccess(), got.String())
				data, ok := got.Data()
				require.True(t, ok)
				require.Equal(t, *tt.raw.Body, data)
				return
			}
			require.True(t, got.IsError(), got.String())
			require.Equal(t, tt.wantMessage, got.Message())
			require.False(t, got.HasData())
		})
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	raws := []remote.RawResponse[recipes.FoodRecipe]{
		{StatusCode: 200, Success: true, Body: recipeBody("R1")},
		{StatusCode: 402, Message: "Payment Required"},
		{Message: "timeout"},
		{StatusCode: 200, Success: true},
	}
	for _, raw := range raws {
		require.Equal(t, Classify(raw, true), Classify(raw, true))
	}
}

func TestClassifyJokeBody(t *testing.T) {
	joke := recipes.Joke{Text: "Lettuce romaine calm."}
	got := Classify(remote.RawResponse[recipes.Joke]{StatusCode: 200, Success: true, Body: &joke}, ForKind(recipes.FoodJoke))
	require.Equal(t, outcome.Success(joke), got)
}

func TestForKind(t *testing.T) {
	require.True(t, ForKind(recipes.PrimaryList))
	require.True(t, ForKind(recipes.SearchResults))
	require.False(t, ForKind(recipes.FoodJoke))
}
