// Package app wires the three fetch pipelines, favorites and preferences into
// the operations the CLI and HTTP surfaces expose.
package app

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/recipefeed/internal/cache"
	"git.home.luguber.info/inful/recipefeed/internal/config"
	"git.home.luguber.info/inful/recipefeed/internal/connectivity"
	"git.home.luguber.info/inful/recipefeed/internal/favorites"
	"git.home.luguber.info/inful/recipefeed/internal/fetch"
	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/logfields"
	"git.home.luguber.info/inful/recipefeed/internal/metrics"
	"git.home.luguber.info/inful/recipefeed/internal/outcome"
	"git.home.luguber.info/inful/recipefeed/internal/preferences"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
	"git.home.luguber.info/inful/recipefeed/internal/remote"
)

// Deps are the collaborators a Service is built from.
type Deps struct {
	API          config.APIConfig
	Cache        cache.Store
	Favorites    favorites.Store
	Preferences  *preferences.Store
	Oracle       *connectivity.Oracle
	RecipeClient remote.Client[recipes.FoodRecipe]
	JokeClient   remote.Client[recipes.Joke]
	Recorder     metrics.Recorder
	Logger       *slog.Logger
}

// Service is the application facade.
type Service struct {
	api       config.APIConfig
	oracle    *connectivity.Oracle
	favorites favorites.Store
	prefs     *preferences.Store
	recorder  metrics.Recorder
	logger    *slog.Logger

	recipeSlot *cache.Slot[recipes.FoodRecipe]
	jokeSlot   *cache.Slot[recipes.Joke]

	appliedMu sync.Mutex
	applied   preferences.MealAndDietType

	recipes    *fetch.Pipeline[recipes.FoodRecipe]
	recipesHub *fetch.Hub[recipes.FoodRecipe]
	search     *fetch.Pipeline[recipes.FoodRecipe]
	searchHub  *fetch.Hub[recipes.FoodRecipe]
	joke       *fetch.Pipeline[recipes.Joke]
	jokeHub    *fetch.Hub[recipes.Joke]
}

// New validates deps and builds the pipelines.
func New(d Deps) (*Service, error) {
	switch {
	case d.Cache == nil:
		return nil, errors.InternalError("app requires a cache store").Build()
	case d.Favorites == nil:
		return nil, errors.InternalError("app requires a favorites store").Build()
	case d.Preferences == nil:
		return nil, errors.InternalError("app requires a preferences store").Build()
	case d.Oracle == nil:
		return nil, errors.InternalError("app requires a connectivity oracle").Build()
	case d.RecipeClient == nil || d.JokeClient == nil:
		return nil, errors.InternalError("app requires remote clients").Build()
	}
	if d.Recorder == nil {
		d.Recorder = metrics.NoopRecorder{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.API.RecipesNumber <= 0 {
		d.API.RecipesNumber = config.DefaultRecipesNumber
	}

	s := &Service{
		api:        d.API,
		oracle:     d.Oracle,
		favorites:  d.Favorites,
		prefs:      d.Preferences,
		recorder:   d.Recorder,
		logger:     d.Logger,
		recipeSlot: cache.NewSlot[recipes.FoodRecipe](d.Cache, recipes.PrimaryList),
		jokeSlot:   cache.NewSlot[recipes.Joke](d.Cache, recipes.FoodJoke),
		recipesHub: fetch.NewHub[recipes.FoodRecipe](),
		searchHub:  fetch.NewHub[recipes.FoodRecipe](),
		jokeHub:    fetch.NewHub[recipes.Joke](),
	}
	opts := []fetch.Option{fetch.WithLogger(d.Logger), fetch.WithRecorder(d.Recorder)}
	s.recipes = fetch.NewPipeline[recipes.FoodRecipe](d.RecipeClient, s.recipeSlot, d.Oracle, s.recipesHub, opts...)
	s.search = fetch.NewPipeline[recipes.FoodRecipe](d.RecipeClient, cache.NewSlot[recipes.FoodRecipe](d.Cache, recipes.SearchResults), d.Oracle, s.searchHub, opts...)
	s.joke = fetch.NewPipeline[recipes.Joke](d.JokeClient, s.jokeSlot, d.Oracle, s.jokeHub, opts...)
	return s, nil
}

// RecipesHub is the observer pair of the primary list pipeline.
func (s *Service) RecipesHub() *fetch.Hub[recipes.FoodRecipe] { return s.recipesHub }

// SearchHub is the observer pair of the search pipeline.
func (s *Service) SearchHub() *fetch.Hub[recipes.FoodRecipe] { return s.searchHub }

// JokeHub is the observer pair of the joke pipeline.
func (s *Service) JokeHub() *fetch.Hub[recipes.Joke] { return s.jokeHub }

// GetRecipes fetches the primary list with explicit query parameters and
// returns every emission of that request in delivery order.
func (s *Service) GetRecipes(ctx context.Context, params map[string]string) []fetch.Event[recipes.FoodRecipe] {
	return run(ctx, s.recipes, s.recipesHub, params, s.logger)
}

// SearchRecipes runs a free-text search.
func (s *Service) SearchRecipes(ctx context.Context, query string) ([]fetch.Event[recipes.FoodRecipe], error) {
	if preferences.NormalizeSearch(query) == "" {
		return nil, errors.ValidationError("search query is required").Build()
	}
	params := preferences.ApplySearchQuery(query, s.api.APIKey, s.api.RecipesNumber)
	return run(ctx, s.search, s.searchHub, params, s.logger), nil
}

// GetFoodJoke fetches a random food joke with the configured API key.
func (s *Service) GetFoodJoke(ctx context.Context) []fetch.Event[recipes.Joke] {
	return run(ctx, s.joke, s.jokeHub, preferences.JokeQuery(s.api.APIKey), s.logger)
}

// LoadRecipes serves the primary list database-first: a populated cache is
// returned as a single Success without touching the network unless
// forceRemote is set. Otherwise it fetches with the saved filter.
func (s *Service) LoadRecipes(ctx context.Context, forceRemote bool) []fetch.Event[recipes.FoodRecipe] {
	if !forceRemote {
		cached, ok, err := s.recipeSlot.Latest(ctx)
		if err != nil {
			s.logger.Warn("Reading cached recipes failed; requesting remote", logfields.Error(err))
		}
		if ok && len(cached.Results) > 0 {
			s.logger.Debug("Serving recipes from cache", logfields.Kind(recipes.PrimaryList.String()))
			req := s.recipes.NewRequest(nil)
			return []fetch.Event[recipes.FoodRecipe]{{Channel: fetch.ChannelPrimary, Request: req, Outcome: outcome.Success(cached)}}
		}
	}
	m := s.prefs.MealAndDietType()
	s.setApplied(m)
	return s.GetRecipes(ctx, preferences.ApplyQueries(m, s.api.APIKey, s.api.RecipesNumber))
}

// AppliedFilter is the filter used by the most recent remote load of the
// primary list. It is the zero value before the first one.
func (s *Service) AppliedFilter() preferences.MealAndDietType {
	s.appliedMu.Lock()
	defer s.appliedMu.Unlock()
	return s.applied
}

func (s *Service) setApplied(m preferences.MealAndDietType) {
	s.appliedMu.Lock()
	s.applied = m
	s.appliedMu.Unlock()
}

// ApplyFilter saves a new meal/diet selection and reloads from the remote.
func (s *Service) ApplyFilter(ctx context.Context, mealType, dietType string) ([]fetch.Event[recipes.FoodRecipe], error) {
	m, err := preferences.Select(mealType, dietType)
	if err != nil {
		return nil, err
	}
	// Recorded before the save so a file watcher sees this change as applied.
	s.setApplied(m)
	if err := s.prefs.SaveMealAndDietType(m); err != nil {
		return nil, err
	}
	return s.LoadRecipes(ctx, true), nil
}

// RecipeQueries builds the primary-list query from the saved filter.
func (s *Service) RecipeQueries() map[string]string {
	return preferences.ApplyQueries(s.prefs.MealAndDietType(), s.api.APIKey, s.api.RecipesNumber)
}

// Preferences returns the saved preferences.
func (s *Service) Preferences() preferences.State {
	return s.prefs.Load()
}

// ReadCachedRecipes returns the cached primary list, if any.
func (s *Service) ReadCachedRecipes(ctx context.Context) (recipes.FoodRecipe, bool, error) {
	return s.recipeSlot.Latest(ctx)
}

// ReadCachedJoke returns the cached joke, if any.
func (s *Service) ReadCachedJoke(ctx context.Context) (recipes.Joke, bool, error) {
	return s.jokeSlot.Latest(ctx)
}

// AddFavorite stores a recipe as a favorite.
func (s *Service) AddFavorite(ctx context.Context, r recipes.Result) (favorites.Favorite, error) {
	return s.favorites.Insert(ctx, favorites.Favorite{Result: r})
}

// RemoveFavorite deletes one favorite by ID.
func (s *Service) RemoveFavorite(ctx context.Context, id int64) error {
	return s.favorites.Delete(ctx, id)
}

// ClearFavorites deletes every favorite.
func (s *Service) ClearFavorites(ctx context.Context) error {
	return s.favorites.DeleteAll(ctx)
}

// Favorites lists favorites by ascending ID.
func (s *Service) Favorites(ctx context.Context) ([]favorites.Favorite, error) {
	return s.favorites.List(ctx)
}

// Online reports the oracle's current value.
func (s *Service) Online() bool { return s.oracle.Current() }

func run[T any](ctx context.Context, p *fetch.Pipeline[T], hub *fetch.Hub[T], params map[string]string, logger *slog.Logger) []fetch.Event[T] {
	req := p.NewRequest(params)
	var c fetch.Collector[T]
	unsubscribe := hub.Subscribe(fetch.ForRequest[T](req, &c))
	defer unsubscribe()

	if err := p.Fetch(ctx, req); err != nil {
		logger.Error("Fetch rejected", logfields.RequestID(req.ID().String()), logfields.Error(err))
	}
	return c.Events()
}
