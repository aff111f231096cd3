package fetch

import (
	"sync"

	"git.home.luguber.info/inful/recipefeed/internal/outcome"
)

// Channel names the two observation channels of a pipeline.
type Channel string

const (
	// ChannelPrimary receives Loading and the terminal outcome of every request.
	ChannelPrimary Channel = "primary"
	// ChannelFallback receives a cached Success after a failed request.
	ChannelFallback Channel = "fallback"
)

// Observer receives pipeline emissions. Calls are made synchronously from
// the goroutine running the fetch. A panic inside a callback is recovered and
// logged by the pipeline; the emission is lost but the fetch continues.
type Observer[T any] interface {
	OnPrimary(req Request, o outcome.Outcome[T])
	OnFallback(req Request, o outcome.Outcome[T])
}

// Event is one emission as seen by an observer.
type Event[T any] struct {
	Channel Channel            `json:"channel"`
	Request Request            `json:"-"`
	Outcome outcome.Outcome[T] `json:"outcome"`
}

// Funcs adapts two functions to Observer. Nil funcs are skipped.
type Funcs[T any] struct {
	Primary  func(Request, outcome.Outcome[T])
	Fallback func(Request, outcome.Outcome[T])
}

func (f Funcs[T]) OnPrimary(req Request, o outcome.Outcome[T]) {
	if f.Primary != nil {
		f.Primary(req, o)
	}
}

func (f Funcs[T]) OnFallback(req Request, o outcome.Outcome[T]) {
	if f.Fallback != nil {
		f.Fallback(req, o)
	}
}

// Collector records every emission in delivery order.
type Collector[T any] struct {
	mu     sync.Mutex
	events []Event[T]
}

func (c *Collector[T]) OnPrimary(req Request, o outcome.Outcome[T]) {
	c.add(Event[T]{Channel: ChannelPrimary, Request: req, Outcome: o})
}

func (c *Collector[T]) OnFallback(req Request, o outcome.Outcome[T]) {
	c.add(Event[T]{Channel: ChannelFallback, Request: req, Outcome: o})
}

func (c *Collector[T]) add(e Event[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

// Events returns a copy of the recorded emissions.
func (c *Collector[T]) Events() []Event[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event[T](nil), c.events...)
}

// On returns the outcomes delivered on one channel.
func (c *Collector[T]) On(ch Channel) []outcome.Outcome[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []outcome.Outcome[T]
	for _, e := range c.events {
		if e.Channel == ch {
			out = append(out, e.Outcome)
		}
	}
	return out
}

// Hub fans emissions out to subscribers and remembers the last outcome
// delivered on each channel, whichever request produced it.
type Hub[T any] struct {
	mu     sync.RWMutex
	subs   map[uint64]Observer[T]
	nextID uint64
	latest map[Channel]outcome.Outcome[T]
}

// NewHub creates an empty hub.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[uint64]Observer[T]), latest: make(map[Channel]outcome.Outcome[T])}
}

// Subscribe registers o until the returned func is called.
func (h *Hub[T]) Subscribe(o Observer[T]) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.subs[id] = o
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// Latest returns the last outcome delivered on ch.
func (h *Hub[T]) Latest(ch Channel) (outcome.Outcome[T], bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	o, ok := h.latest[ch]
	return o, ok
}

func (h *Hub[T]) OnPrimary(req Request, o outcome.Outcome[T]) {
	for _, sub := range h.record(ChannelPrimary, o) {
		sub.OnPrimary(req, o)
	}
}

func (h *Hub[T]) OnFallback(req Request, o outcome.Outcome[T]) {
	for _, sub := range h.record(ChannelFallback, o) {
		sub.OnFallback(req, o)
	}
}

func (h *Hub[T]) record(ch Channel, o outcome.Outcome[T]) []Observer[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest[ch] = o
	subs := make([]Observer[T], 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	return subs
}

// ForRequest wraps o so it only sees emissions belonging to req.
func ForRequest[T any](req Request, o Observer[T]) Observer[T] {
	return Funcs[T]{
		Primary: func(r Request, out outcome.Outcome[T]) {
			if r.ID() == req.ID() {
				o.OnPrimary(r, out)
			}
		},
		Fallback: func(r Request, out outcome.Outcome[T]) {
			if r.ID() == req.ID() {
				o.OnFallback(r, out)
			}
		},
	}
}
