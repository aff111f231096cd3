package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/recipefeed/internal/app"
	"git.home.luguber.info/inful/recipefeed/internal/fetch"
	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
	"git.home.luguber.info/inful/recipefeed/internal/server/responses"
)

// FeedService is the part of the application the feed handlers drive.
type FeedService interface {
	LoadRecipes(ctx context.Context, forceRemote bool) []fetch.Event[recipes.FoodRecipe]
	SearchRecipes(ctx context.Context, query string) ([]fetch.Event[recipes.FoodRecipe], error)
	GetFoodJoke(ctx context.Context) []fetch.Event[recipes.Joke]
}

// FeedHandlers serves the three fetch pipelines.
type FeedHandlers struct {
	svc          FeedService
	errorAdapter *errors.HTTPErrorAdapter
}

// NewFeedHandlers creates feed handlers backed by svc.
func NewFeedHandlers(svc FeedService) *FeedHandlers {
	return &FeedHandlers{svc: svc, errorAdapter: errors.NewHTTPErrorAdapter(slog.Default())}
}

// HandleRecipes serves the primary list database-first. refresh=true forces
// a remote fetch; plain=true strips markup from summaries.
func (h *FeedHandlers) HandleRecipes(w http.ResponseWriter, r *http.Request) {
	events := h.svc.LoadRecipes(r.Context(), queryBool(r, "refresh"))
	if queryBool(r, "plain") {
		events = app.PlainSummaries(events)
	}
	h.write(w, r, responses.RecipesResponse{Kind: recipes.PrimaryList, Events: events})
}

// HandleSearch runs a free-text search given by the q parameter.
func (h *FeedHandlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	events, err := h.svc.SearchRecipes(r.Context(), query)
	if err != nil {
		if c, ok := errors.AsClassified(err); ok {
			err = c.WithContext("parameter", "q")
		}
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	if queryBool(r, "plain") {
		events = app.PlainSummaries(events)
	}
	h.write(w, r, responses.RecipesResponse{Kind: recipes.SearchResults, Events: events})
}

// HandleJoke fetches a random food joke.
func (h *FeedHandlers) HandleJoke(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, responses.JokeResponse{Kind: recipes.FoodJoke, Events: h.svc.GetFoodJoke(r.Context())})
}

func (h *FeedHandlers) write(w http.ResponseWriter, r *http.Request, v any) {
	respond(w, r, h.errorAdapter, http.StatusOK, v, "feed")
}
