package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"git.home.luguber.info/inful/recipefeed/internal/favorites"
	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
	"git.home.luguber.info/inful/recipefeed/internal/server/responses"
)

// maxFavoriteBody bounds the size of a posted recipe.
const maxFavoriteBody = 1 << 20

// FavoritesService is the favorites part of the application.
type FavoritesService interface {
	AddFavorite(ctx context.Context, r recipes.Result) (favorites.Favorite, error)
	RemoveFavorite(ctx context.Context, id int64) error
	ClearFavorites(ctx context.Context) error
	Favorites(ctx context.Context) ([]favorites.Favorite, error)
}

// FavoritesHandlers manages saved recipes.
type FavoritesHandlers struct {
	svc          FavoritesService
	errorAdapter *errors.HTTPErrorAdapter
}

// NewFavoritesHandlers creates favorites handlers backed by svc.
func NewFavoritesHandlers(svc FavoritesService) *FavoritesHandlers {
	return &FavoritesHandlers{svc: svc, errorAdapter: errors.NewHTTPErrorAdapter(slog.Default())}
}

// HandleList returns every favorite by ascending ID.
func (h *FavoritesHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Favorites(r.Context())
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	if list == nil {
		list = []favorites.Favorite{}
	}
	h.write(w, r, http.StatusOK, responses.FavoritesResponse{Favorites: list, Count: len(list)})
}

// HandleAdd stores the recipe in the request body.
func (h *FavoritesHandlers) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var result recipes.Result
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFavoriteBody)).Decode(&result); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryValidation, "invalid recipe body").Build())
		return
	}
	fav, err := h.svc.AddFavorite(r.Context(), result)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.write(w, r, http.StatusCreated, fav)
}

// HandleRemove deletes the favorite named by the id path value.
func (h *FavoritesHandlers) HandleRemove(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.errorAdapter.WriteErrorResponse(w, r, errors.ValidationError("invalid favorite id").
			WithContext("id", raw).
			Build())
		return
	}
	if err := h.svc.RemoveFavorite(r.Context(), id); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleClear deletes every favorite.
func (h *FavoritesHandlers) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearFavorites(r.Context()); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FavoritesHandlers) write(w http.ResponseWriter, r *http.Request, status int, v any) {
	respond(w, r, h.errorAdapter, status, v, "favorites")
}
