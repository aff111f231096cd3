package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/recipefeed/internal/cache"
	"git.home.luguber.info/inful/recipefeed/internal/classify"
	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/logfields"
	"git.home.luguber.info/inful/recipefeed/internal/metrics"
	"git.home.luguber.info/inful/recipefeed/internal/outcome"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
	"git.home.luguber.info/inful/recipefeed/internal/remote"
)

// Reachability is the read side of the connectivity oracle.
type Reachability interface {
	Current() bool
}

// Option customizes a Pipeline.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	recorder metrics.Recorder
}

// WithLogger sets the pipeline logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// Pipeline mediates between a remote client, a cache slot and the
// connectivity oracle for a single dataset kind. It holds no state of its own.
type Pipeline[T any] struct {
	kind        recipes.Kind
	listBearing bool
	client      remote.Client[T]
	slot        *cache.Slot[T]
	reach       Reachability
	observer    Observer[T]
	logger      *slog.Logger
	recorder    metrics.Recorder
}

// NewPipeline builds a pipeline for slot.Kind().
func NewPipeline[T any](client remote.Client[T], slot *cache.Slot[T], reach Reachability, observer Observer[T], opts ...Option) *Pipeline[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.recorder == nil {
		o.recorder = metrics.NoopRecorder{}
	}
	if observer == nil {
		observer = Funcs[T]{}
	}
	kind := slot.Kind()
	return &Pipeline[T]{
		kind:        kind,
		listBearing: classify.ForKind(kind),
		client:      client,
		slot:        slot,
		reach:       reach,
		observer:    observer,
		logger:      o.logger.With(logfields.Kind(kind.String())),
		recorder:    o.recorder,
	}
}

// Kind returns the dataset kind the pipeline serves.
func (p *Pipeline[T]) Kind() recipes.Kind { return p.kind }

// NewRequest builds a request for this pipeline's kind.
func (p *Pipeline[T]) NewRequest(params map[string]string) Request {
	return NewRequest(p.kind, params)
}

// Fetch runs one request to completion, delivering every outcome to the
// observer before returning. The only error is a request for another kind,
// in which case nothing is emitted.
func (p *Pipeline[T]) Fetch(ctx context.Context, req Request) error {
	if req.Kind() != p.kind {
		return errors.ValidationError("request kind does not match pipeline").
			WithContext("pipeline_kind", p.kind.String()).
			WithContext("request_kind", req.Kind().String()).
			Build()
	}

	start := time.Now()
	log := p.logger.With(logfields.RequestID(req.ID().String()))
	defer func() {
		p.recorder.ObserveFetchDuration(p.kind.String(), time.Since(start))
	}()

	p.emitPrimary(log, req, outcome.Loading[T]())

	if !p.reach.Current() {
		p.recorder.IncOutcome(p.kind.String(), metrics.OutcomeOffline)
		p.emitPrimary(log, req, outcome.Error[T](outcome.MsgNoInternet))
		return nil
	}

	raw, err := p.call(ctx, req)
	if err != nil {
		log.Warn("Remote call failed", logfields.Error(err))
		p.recorder.IncOutcome(p.kind.String(), metrics.OutcomeTransportFault)
		p.emitPrimary(log, req, outcome.Error[T](outcome.MsgTransportFault))
		p.fallback(ctx, log, req)
		return nil
	}

	result := classify.Classify(raw, p.listBearing)
	if data, ok := result.Data(); ok && result.IsSuccess() {
		p.writeThrough(ctx, log, data)
		p.recorder.IncOutcome(p.kind.String(), metrics.OutcomeSuccess)
		p.emitPrimary(log, req, result)
		return nil
	}

	p.recorder.IncOutcome(p.kind.String(), metrics.OutcomeError)
	p.emitPrimary(log, req, result)
	p.fallback(ctx, log, req)
	return nil
}

// Go runs Fetch on its own goroutine. The returned channel is closed once
// every outcome has been delivered.
func (p *Pipeline[T]) Go(ctx context.Context, req Request) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := p.Fetch(ctx, req); err != nil {
			p.logger.Error("Fetch rejected", logfields.RequestID(req.ID().String()), logfields.Error(err))
		}
	}()
	return done
}

// call invokes the remote client, turning a panic into a transport fault.
func (p *Pipeline[T]) call(ctx context.Context, req Request) (raw remote.RawResponse[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &remote.TransportFault{Kind: p.kind, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return p.client.Call(ctx, p.kind, req.Params())
}

func (p *Pipeline[T]) writeThrough(ctx context.Context, log *slog.Logger, data T) {
	if err := p.slot.Write(ctx, data); err != nil {
		log.Warn("Cache write failed", logfields.Error(err))
		p.recorder.IncCacheWrite(p.kind.String(), metrics.ResultFailed)
		return
	}
	p.recorder.IncCacheWrite(p.kind.String(), metrics.ResultSuccess)
}

func (p *Pipeline[T]) fallback(ctx context.Context, log *slog.Logger, req Request) {
	cached, ok, err := p.slot.Latest(ctx)
	switch {
	case err != nil:
		log.Warn("Cache fallback read failed", logfields.Error(err))
		p.recorder.IncCacheRead(p.kind.String(), metrics.ResultFailed)
	case !ok:
		log.Debug("Cache fallback miss")
		p.recorder.IncCacheRead(p.kind.String(), metrics.ResultMiss)
	default:
		p.recorder.IncCacheRead(p.kind.String(), metrics.ResultHit)
		p.recorder.IncFallbackHit(p.kind.String())
		o := outcome.Success(cached)
		log.Debug("Emitting outcome", logfields.Channel(string(ChannelFallback)), logfields.Outcome(o.String()))
		p.deliver(log, ChannelFallback, func() { p.observer.OnFallback(req, o) })
	}
}

func (p *Pipeline[T]) emitPrimary(log *slog.Logger, req Request, o outcome.Outcome[T]) {
	attrs := []any{logfields.Channel(string(ChannelPrimary)), logfields.Outcome(o.Status().String())}
	if o.IsError() {
		attrs = append(attrs, logfields.Reason(o.Message()))
	}
	log.Debug("Emitting outcome", attrs...)
	p.deliver(log, ChannelPrimary, func() { p.observer.OnPrimary(req, o) })
}

// deliver runs one observer callback. A panicking observer is logged and the
// fetch carries on, so later emissions still happen.
func (p *Pipeline[T]) deliver(log *slog.Logger, ch Channel, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Observer panicked", logfields.Channel(string(ch)), logfields.Error(fmt.Errorf("panic: %v", r)))
		}
	}()
	fn()
}
