// Package responses defines API response types used by the recipefeed HTTP handlers.
package responses

import (
	"time"

	"git.home.luguber.info/inful/recipefeed/internal/fetch"
	"git.home.luguber.info/inful/recipefeed/internal/favorites"
	"git.home.luguber.info/inful/recipefeed/internal/preferences"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
)

// FeedResponse carries every outcome emitted for one request, in delivery
// order. The last event is the one a screen would be showing.
type FeedResponse[T any] struct {
	Kind   recipes.Kind     `json:"kind"`
	Events []fetch.Event[T] `json:"events"`
}

// RecipesResponse is returned by the recipe list and search endpoints.
type RecipesResponse = FeedResponse[recipes.FoodRecipe]

// JokeResponse is returned by the food joke endpoint.
type JokeResponse = FeedResponse[recipes.Joke]

// FavoritesResponse lists saved favorites.
type FavoritesResponse struct {
	Favorites []favorites.Favorite `json:"favorites"`
	Count     int                  `json:"count"`
}

// PreferencesResponse reports the saved filter and, after an update, the
// reload it triggered.
type PreferencesResponse struct {
	MealAndDiet preferences.MealAndDietType       `json:"meal_and_diet"`
	BackOnline  bool                              `json:"back_online"`
	MealTypes   []string                          `json:"meal_types,omitempty"`
	DietTypes   []string                          `json:"diet_types,omitempty"`
	Reload      []fetch.Event[recipes.FoodRecipe] `json:"reload,omitempty"`
}

// PreferencesRequest is the body of a filter update.
type PreferencesRequest struct {
	MealType string `json:"meal_type"`
	DietType string `json:"diet_type"`
}

// NetworkResponse reports connectivity as the oracle currently sees it.
type NetworkResponse struct {
	Online  bool   `json:"online"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
	Online    bool      `json:"online"`
}
