package httpserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/recipefeed/internal/app"
	"git.home.luguber.info/inful/recipefeed/internal/cache"
	"git.home.luguber.info/inful/recipefeed/internal/config"
	"git.home.luguber.info/inful/recipefeed/internal/connectivity"
	"git.home.luguber.info/inful/recipefeed/internal/favorites"
	"git.home.luguber.info/inful/recipefeed/internal/metrics"
	"git.home.luguber.info/inful/recipefeed/internal/preferences"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
	"git.home.luguber.info/inful/recipefeed/internal/remote"
)

func newTestServer(t *testing.T, addr string) *Server {
	t.Helper()
	reg := metrics.NewRegistry()
	recipeClient := remote.ClientFunc[recipes.FoodRecipe](func(context.Context, recipes.Kind, map[string]string) (remote.RawResponse[recipes.FoodRecipe], error) {
		return remote.RawResponse[recipes.FoodRecipe]{StatusCode: 200, Success: true, Body: &recipes.FoodRecipe{Results: []recipes.Result{{RecipeID: 1}}}}, nil
	})
	jokeClient := remote.ClientFunc[recipes.Joke](func(context.Context, recipes.Kind, map[string]string) (remote.RawResponse[recipes.Joke], error) {
		return remote.RawResponse[recipes.Joke]{StatusCode: 200, Success: true, Body: &recipes.Joke{Text: "Lettuce romaine calm."}}, nil
	})
	svc, err := app.New(app.Deps{
		API:          config.APIConfig{APIKey: "key"},
		Cache:        cache.NewMemoryStore(),
		Favorites:    favorites.NewMemoryStore(),
		Preferences:  preferences.NewStore(filepath.Join(t.TempDir(), "prefs.yaml")),
		Oracle:       connectivity.New(true),
		RecipeClient: recipeClient,
		JokeClient:   jokeClient,
		Recorder:     metrics.NewPrometheusRecorder(reg),
	})
	require.NoError(t, err)
	return New(config.ServerConfig{Addr: addr}, svc, Options{MetricsHandler: metrics.HTTPHandler(reg)})
}

func TestRoutes(t *testing.T) {
	h := newTestServer(t, "").Handler()

	cases := []struct {
		method, path string
		body         string
		want         int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/api/network", "", http.StatusOK},
		{http.MethodGet, "/api/recipes", "", http.StatusOK},
		{http.MethodPost, "/api/recipes", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/search?q=pasta", "", http.StatusOK},
		{http.MethodGet, "/api/search", "", http.StatusBadRequest},
		{http.MethodGet, "/api/joke", "", http.StatusOK},
		{http.MethodPost, "/api/favorites", `{"id":3,"title":"Tart"}`, http.StatusCreated},
		{http.MethodGet, "/api/favorites", "", http.StatusOK},
		{http.MethodDelete, "/api/favorites/1", "", http.StatusNoContent},
		{http.MethodDelete, "/api/favorites", "", http.StatusNoContent},
		{http.MethodGet, "/api/preferences", "", http.StatusOK},
		{http.MethodPut, "/api/preferences", `{"meal_type":"salad","diet_type":"paleo"}`, http.StatusOK},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))
			require.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestMetricsEndpointExposesPipelineCounters(t *testing.T) {
	h := newTestServer(t, "").Handler()

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/joke", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "recipefeed_fetch_outcomes_total")
}

func TestStartStop(t *testing.T) {
	s := newTestServer(t, "127.0.0.1:0")
	require.Equal(t, "", s.Addr())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Start(ctx))
	require.Error(t, s.Start(ctx))

	resp, err := http.Get("http://" + s.Addr() + "/healthz")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `"status":"healthy"`)

	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
}

func TestStartFailsOnBusyAddress(t *testing.T) {
	first := newTestServer(t, "127.0.0.1:0")
	ctx := context.Background()
	require.NoError(t, first.Start(ctx))
	t.Cleanup(func() { _ = first.Stop(ctx) })

	second := newTestServer(t, first.Addr())
	require.Error(t, second.Start(ctx))
}
