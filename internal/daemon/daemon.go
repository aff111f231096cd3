// Package daemon runs recipefeed as a long-lived service: the HTTP API, the
// connectivity prober, the preferences watcher, the periodic refresher and
// the optional outcome broadcaster.
package daemon

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/recipefeed/internal/app"
	"git.home.luguber.info/inful/recipefeed/internal/broadcast"
	"git.home.luguber.info/inful/recipefeed/internal/config"
	"git.home.luguber.info/inful/recipefeed/internal/connectivity"
	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/logfields"
	"git.home.luguber.info/inful/recipefeed/internal/metrics"
	"git.home.luguber.info/inful/recipefeed/internal/preferences"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
	"git.home.luguber.info/inful/recipefeed/internal/retry"
	"git.home.luguber.info/inful/recipefeed/internal/server/httpserver"
)

// Status represents the current state of the daemon.
type Status string

const (
	StatusStopped  Status = "stopped"
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusStopping Status = "stopping"
	StatusError    Status = "error"
)

// ShutdownTimeout bounds how long Run waits for components to stop.
const ShutdownTimeout = 10 * time.Second

// Options are the collaborators a Daemon runs.
type Options struct {
	Service     *app.Service
	Oracle      *connectivity.Oracle
	Scanner     connectivity.Scanner
	Preferences *preferences.Store
	Recorder    metrics.Recorder
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler
	// Publisher overrides the NATS connection used for outcome events.
	Publisher broadcast.Publisher
	Logger    *slog.Logger
}

// Daemon represents the main daemon service.
type Daemon struct {
	cfg       *config.Config
	opts      Options
	logger    *slog.Logger
	status    atomic.Value // Status
	startTime time.Time

	server    *httpserver.Server
	prober    *connectivity.Prober
	watcher   *preferences.Watcher
	refresher *Refresher

	eventsConn  *nats.Conn
	unsubscribe []func()

	cancel  context.CancelFunc
	started bool
	wg      sync.WaitGroup
	mu      sync.Mutex
}

// New creates a daemon. Nothing runs until Start.
func New(cfg *config.Config, opts Options) (*Daemon, error) {
	switch {
	case cfg == nil:
		return nil, errors.DaemonError("configuration is required").Build()
	case opts.Service == nil || opts.Oracle == nil || opts.Preferences == nil:
		return nil, errors.DaemonError("daemon requires a service, oracle and preferences store").Build()
	}
	if opts.Scanner == nil {
		opts.Scanner = connectivity.InterfaceScanner{}
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	d := &Daemon{cfg: cfg, opts: opts, logger: opts.Logger}
	d.status.Store(StatusStopped)

	prober, err := connectivity.NewProber(opts.Oracle, opts.Scanner, cfg.Connectivity.ProbeInterval)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryDaemon, "failed to create connectivity prober").Build()
	}
	d.prober = prober

	watcher, err := preferences.NewWatcher(opts.Preferences, 0)
	if err != nil {
		return nil, err
	}
	d.watcher = watcher

	refresher, err := NewRefresher(opts.Service, cfg.Refresh.Interval, retry.FromConfig(cfg.Refresh), opts.Recorder, opts.Logger)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryDaemon, "failed to create refresher").Build()
	}
	d.refresher = refresher

	return d, nil
}

// Status returns the current daemon state.
func (d *Daemon) Status() Status {
	return d.status.Load().(Status)
}

// StartTime is when the daemon last started.
func (d *Daemon) StartTime() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.startTime
}

// Addr is the HTTP listener address once started.
func (d *Daemon) Addr() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.server == nil {
		return ""
	}
	return d.server.Addr()
}

// Start brings every component up. On failure the components already
// started are stopped again.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return errors.DaemonError("daemon cannot be started twice").
			WithContext("status", string(d.Status())).
			Build()
	}
	d.started = true
	d.status.Store(StatusStarting)
	d.startTime = time.Now()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d.cancel = cancel

	if err := d.startComponents(ctx, runCtx); err != nil {
		d.status.Store(StatusError)
		_ = d.stopComponents(ctx)
		d.status.Store(StatusStopped)
		return err
	}

	d.status.Store(StatusRunning)
	d.logger.Info("Daemon started", slog.String("addr", d.server.Addr()))
	return nil
}

func (d *Daemon) startComponents(ctx, runCtx context.Context) error {
	if err := d.startBroadcast(); err != nil {
		return err
	}

	if err := d.prober.Start(); err != nil {
		return errors.WrapError(err, errors.CategoryDaemon, "failed to start connectivity prober").Build()
	}
	d.goRun(func() { d.opts.Service.WatchConnectivity(runCtx, d.onNetworkNotice(runCtx)) })

	baseline := d.opts.Preferences.MealAndDietType()
	if err := d.watcher.Start(runCtx); err != nil {
		return err
	}
	d.goRun(func() { d.followPreferences(runCtx, baseline) })

	if err := d.refresher.Start(runCtx); err != nil {
		return errors.WrapError(err, errors.CategoryDaemon, "failed to start refresher").Build()
	}

	d.server = httpserver.New(d.cfg.Server, d.opts.Service, httpserver.Options{
		MetricsHandler: d.opts.MetricsHandler,
		StartTime:      d.startTime,
		Logger:         d.logger,
	})
	return d.server.Start(ctx)
}

// startBroadcast subscribes a NATS publisher to all three hubs when events
// are configured.
func (d *Daemon) startBroadcast() error {
	pub := d.opts.Publisher
	if pub == nil {
		if d.cfg.Events.NATSURL == "" {
			return nil
		}
		conn, err := broadcast.Connect(d.cfg.Events.NATSURL)
		if err != nil {
			return err
		}
		d.eventsConn = conn
		pub = conn
	}

	prefix := d.cfg.Events.SubjectPrefix
	svc := d.opts.Service
	d.unsubscribe = append(d.unsubscribe,
		svc.RecipesHub().Subscribe(broadcast.NewNATSObserver[recipes.FoodRecipe](pub, prefix, recipes.PrimaryList)),
		svc.SearchHub().Subscribe(broadcast.NewNATSObserver[recipes.FoodRecipe](pub, prefix, recipes.SearchResults)),
		svc.JokeHub().Subscribe(broadcast.NewNATSObserver[recipes.Joke](pub, prefix, recipes.FoodJoke)),
	)
	d.logger.Info("Broadcasting outcomes", slog.String("prefix", prefix))
	return nil
}

// onNetworkNotice refreshes once connectivity is back.
func (d *Daemon) onNetworkNotice(ctx context.Context) func(string) {
	return func(msg string) {
		if msg != app.MsgBackOnline {
			return
		}
		d.goRun(func() { d.refresher.Refresh(ctx) })
	}
}

// followPreferences reloads the list whenever the saved filter on disk moves
// away from current. current must be read before the watcher starts, or an
// edit racing startup would become the baseline and never trigger a reload.
func (d *Daemon) followPreferences(ctx context.Context, current preferences.MealAndDietType) {
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-d.watcher.Updates():
			if !ok {
				return
			}
			if st.MealAndDiet == current || st.MealAndDiet == d.opts.Service.AppliedFilter() {
				current = st.MealAndDiet
				continue
			}
			current = st.MealAndDiet
			d.logger.Info("Filter changed; reloading recipes",
				slog.String("meal_type", current.MealType),
				slog.String("diet_type", current.DietType))
			d.refresher.Refresh(ctx)
		}
	}
}

func (d *Daemon) goRun(fn func()) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		fn()
	}()
}

// Stop shuts every component down and waits for background work.
func (d *Daemon) Stop(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Status() != StatusRunning {
		return nil
	}
	d.status.Store(StatusStopping)
	err := d.stopComponents(ctx)
	d.status.Store(StatusStopped)
	d.logger.Info("Daemon stopped")
	return err
}

func (d *Daemon) stopComponents(ctx context.Context) error {
	var errs []error
	if d.server != nil {
		if err := d.server.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if d.cancel != nil {
		d.cancel()
	}
	if err := d.refresher.Stop(); err != nil {
		d.logger.Debug("Refresher stop", logfields.Error(err))
	}
	if err := d.watcher.Stop(); err != nil {
		errs = append(errs, err)
	}
	if err := d.prober.Stop(); err != nil {
		d.logger.Debug("Prober stop", logfields.Error(err))
	}
	for _, unsub := range d.unsubscribe {
		unsub()
	}
	d.unsubscribe = nil
	if d.eventsConn != nil {
		if err := d.eventsConn.Drain(); err != nil {
			errs = append(errs, errors.WrapError(err, errors.CategoryBroker, "failed to drain event connection").Build())
		}
		d.eventsConn = nil
	}
	d.wg.Wait()
	return errors.Join(errs...)
}

// Run starts the daemon and blocks until ctx is done, then stops it.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()
	return d.Stop(stopCtx)
}
