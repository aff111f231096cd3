package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/recipefeed/internal/fetch"
	"git.home.luguber.info/inful/recipefeed/internal/logfields"
	"git.home.luguber.info/inful/recipefeed/internal/metrics"
	"git.home.luguber.info/inful/recipefeed/internal/outcome"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
	"git.home.luguber.info/inful/recipefeed/internal/retry"
)

// RecipeLoader is the part of the application a refresh drives.
type RecipeLoader interface {
	LoadRecipes(ctx context.Context, forceRemote bool) []fetch.Event[recipes.FoodRecipe]
}

// Refresher periodically re-fetches the primary recipe list. An Error
// outcome is re-issued according to the retry policy; the pipeline itself
// never retries. Offline errors are not retried since nothing would change
// until connectivity returns.
type Refresher struct {
	loader    RecipeLoader
	interval  time.Duration
	policy    retry.Policy
	recorder  metrics.Recorder
	logger    *slog.Logger
	scheduler gocron.Scheduler

	// sleep waits between retries; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error

	mu sync.Mutex
}

// NewRefresher builds a refresher. A non-positive interval disables the
// periodic job; Refresh can still be called directly.
func NewRefresher(loader RecipeLoader, interval time.Duration, policy retry.Policy, recorder metrics.Recorder, logger *slog.Logger) (*Refresher, error) {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Refresher{
		loader:    loader,
		interval:  interval,
		policy:    policy,
		recorder:  recorder,
		logger:    logger,
		scheduler: s,
		sleep:     sleepCtx,
	}, nil
}

// Start schedules the periodic refresh. Jobs run with ctx.
func (r *Refresher) Start(ctx context.Context) error {
	if r.interval <= 0 {
		r.logger.Info("Periodic refresh disabled")
		return nil
	}
	_, err := r.scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(func() { r.Refresh(ctx) }),
		gocron.WithName("recipes-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh job: %w", err)
	}
	r.logger.Info("Starting recipe refresher", slog.Duration("interval", r.interval))
	r.scheduler.Start()
	return nil
}

// Stop shuts the scheduler down.
func (r *Refresher) Stop() error {
	return r.scheduler.Shutdown()
}

// Refresh forces a remote load and re-issues it after an Error until the
// policy is exhausted. It returns the last primary outcome seen.
func (r *Refresher) Refresh(ctx context.Context) outcome.Outcome[recipes.FoodRecipe] {
	r.mu.Lock()
	defer r.mu.Unlock()

	kind := recipes.PrimaryList.String()
	for attempt := 0; ; attempt++ {
		last := lastPrimary(r.loader.LoadRecipes(ctx, true))
		if !last.IsError() {
			return last
		}
		if last.Message() == outcome.MsgNoInternet {
			r.logger.Info("Refresh skipped while offline")
			return last
		}
		if r.policy.Exhausted(attempt) {
			r.recorder.IncRefreshRetryExhausted(kind)
			r.logger.Warn("Refresh retries exhausted",
				logfields.Attempt(attempt),
				logfields.Reason(last.Message()))
			return last
		}
		delay := r.policy.Delay(attempt + 1)
		r.recorder.IncRefreshRetry(kind)
		r.logger.Info("Refresh failed; retrying",
			logfields.Attempt(attempt+1),
			logfields.Reason(last.Message()),
			slog.Duration("delay", delay))
		if err := r.sleep(ctx, delay); err != nil {
			return last
		}
	}
}

func lastPrimary(events []fetch.Event[recipes.FoodRecipe]) outcome.Outcome[recipes.FoodRecipe] {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Channel == fetch.ChannelPrimary {
			return events[i].Outcome
		}
	}
	return outcome.Loading[recipes.FoodRecipe]()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
