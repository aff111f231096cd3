package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/recipefeed/internal/fetch"
	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/preferences"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
	"git.home.luguber.info/inful/recipefeed/internal/server/responses"
)

const maxPreferencesBody = 4 << 10

// PreferencesService reads and changes the saved filter.
type PreferencesService interface {
	Preferences() preferences.State
	ApplyFilter(ctx context.Context, mealType, dietType string) ([]fetch.Event[recipes.FoodRecipe], error)
}

// PreferencesHandlers exposes the meal and diet filter.
type PreferencesHandlers struct {
	svc          PreferencesService
	errorAdapter *errors.HTTPErrorAdapter
}

// NewPreferencesHandlers creates preference handlers backed by svc.
func NewPreferencesHandlers(svc PreferencesService) *PreferencesHandlers {
	return &PreferencesHandlers{svc: svc, errorAdapter: errors.NewHTTPErrorAdapter(slog.Default())}
}

// HandleGet returns the saved filter together with the selectable values.
func (h *PreferencesHandlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Preferences()
	h.write(w, r, responses.PreferencesResponse{
		MealAndDiet: st.MealAndDiet,
		BackOnline:  st.BackOnline,
		MealTypes:   preferences.MealTypes,
		DietTypes:   preferences.DietTypes,
	})
}

// HandleUpdate applies a new filter and reports the reload it triggered.
func (h *PreferencesHandlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req responses.PreferencesRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPreferencesBody)).Decode(&req); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryValidation, "invalid preferences body").Build())
		return
	}
	events, err := h.svc.ApplyFilter(r.Context(), req.MealType, req.DietType)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	st := h.svc.Preferences()
	h.write(w, r, responses.PreferencesResponse{
		MealAndDiet: st.MealAndDiet,
		BackOnline:  st.BackOnline,
		Reload:      events,
	})
}

func (h *PreferencesHandlers) write(w http.ResponseWriter, r *http.Request, v any) {
	respond(w, r, h.errorAdapter, http.StatusOK, v, "preferences")
}
