package commands

import (
	"context"
	"database/sql"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/recipefeed/internal/app"
	"git.home.luguber.info/inful/recipefeed/internal/cache"
	"git.home.luguber.info/inful/recipefeed/internal/config"
	"git.home.luguber.info/inful/recipefeed/internal/connectivity"
	"git.home.luguber.info/inful/recipefeed/internal/favorites"
	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/logfields"
	"git.home.luguber.info/inful/recipefeed/internal/metrics"
	"git.home.luguber.info/inful/recipefeed/internal/preferences"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
	"git.home.luguber.info/inful/recipefeed/internal/remote"
	"git.home.luguber.info/inful/recipefeed/internal/sqlitedb"
)

// Runtime holds every collaborator a command needs, opened from config.
type Runtime struct {
	Config   *config.Config
	Service  *app.Service
	Oracle   *connectivity.Oracle
	Scanner  connectivity.Scanner
	Prefs    *preferences.Store
	Registry *prom.Registry
	Recorder metrics.Recorder

	db        *sql.DB
	cache     cache.Store
	favorites favorites.Store
	logger    *slog.Logger
}

// RuntimeOption customizes OpenRuntime; used by tests.
type RuntimeOption func(*runtimeOptions)

type runtimeOptions struct {
	scanner      connectivity.Scanner
	recipeClient remote.Client[recipes.FoodRecipe]
	jokeClient   remote.Client[recipes.Joke]
}

// WithScanner replaces the network interface scanner.
func WithScanner(s connectivity.Scanner) RuntimeOption {
	return func(o *runtimeOptions) { o.scanner = s }
}

// WithClients replaces the HTTP API clients.
func WithClients(rc remote.Client[recipes.FoodRecipe], jc remote.Client[recipes.Joke]) RuntimeOption {
	return func(o *runtimeOptions) {
		o.recipeClient = rc
		o.jokeClient = jc
	}
}

// OpenRuntime opens the database, cache, favorites and preferences and
// builds the application service. Close releases them.
func OpenRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...RuntimeOption) (_ *Runtime, err error) {
	o := runtimeOptions{scanner: connectivity.InterfaceScanner{}}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = slog.Default()
	}

	rt := &Runtime{Config: cfg, Scanner: o.scanner, logger: logger}
	defer func() {
		if err != nil {
			rt.Close()
		}
	}()

	rt.db, err = sqlitedb.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	rt.cache, err = cache.Open(ctx, cfg.Cache, rt.db)
	if err != nil {
		return nil, err
	}
	favs, err := favorites.NewSQLiteStore(rt.db)
	if err != nil {
		return nil, err
	}
	rt.favorites = favs

	if o.recipeClient == nil {
		if o.recipeClient, err = remote.NewHTTPClient[recipes.FoodRecipe](cfg.API, remote.WithLogger(logger)); err != nil {
			return nil, err
		}
	}
	if o.jokeClient == nil {
		if o.jokeClient, err = remote.NewHTTPClient[recipes.Joke](cfg.API, remote.WithLogger(logger)); err != nil {
			return nil, err
		}
	}
	if !cfg.HasAPIKey() {
		logger.Warn("No API key configured; the remote API will reject requests")
	}

	rt.Prefs = preferences.NewStore(cfg.Preferences.Path)
	rt.Oracle = connectivity.NewFromScan(o.scanner)
	rt.Registry = metrics.NewRegistry()
	rt.Recorder = metrics.NewPrometheusRecorder(rt.Registry)
	rt.Recorder.SetOnline(rt.Oracle.Current())

	rt.Service, err = app.New(app.Deps{
		API:          cfg.API,
		Cache:        rt.cache,
		Favorites:    rt.favorites,
		Preferences:  rt.Prefs,
		Oracle:       rt.Oracle,
		RecipeClient: o.recipeClient,
		JokeClient:   o.jokeClient,
		Recorder:     rt.Recorder,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("Runtime opened",
		logfields.Backend(string(cfg.Cache.Backend)),
		logfields.Path(cfg.Database.Path),
		logfields.Online(rt.Oracle.Current()))
	return rt, nil
}

// Close releases the stores in reverse order of opening.
func (rt *Runtime) Close() {
	var errs []error
	if rt.favorites != nil {
		errs = append(errs, rt.favorites.Close())
	}
	if rt.cache != nil {
		errs = append(errs, rt.cache.Close())
	}
	if rt.db != nil {
		errs = append(errs, rt.db.Close())
	}
	if err := errors.Join(errs...); err != nil {
		rt.logger.Warn("Closing runtime", logfields.Error(err))
	}
}
