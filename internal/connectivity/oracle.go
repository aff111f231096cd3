// Package connectivity exposes a process-wide reachability signal.
//
// An Oracle has a single writer (a Prober, or whatever platform hook calls
// Set) and any number of readers. Every Set is delivered to every subscriber
// without debounce.
package connectivity

import (
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/recipefeed/internal/logfields"
)

// Scanner performs one synchronous reachability check.
type Scanner interface {
	Scan() (bool, error)
}

// ScannerFunc adapts a function to Scanner.
type ScannerFunc func() (bool, error)

// Scan implements Scanner.
func (f ScannerFunc) Scan() (bool, error) { return f() }

// Oracle holds the current reachability and fans updates out to subscribers.
type Oracle struct {
	mu     sync.RWMutex
	online bool
	subs   map[uint64]chan bool
	nextID uint64
}

// New returns an oracle that starts at initial.
func New(initial bool) *Oracle {
	return &Oracle{online: initial, subs: make(map[uint64]chan bool)}
}

// NewFromScan runs s immediately and starts from its result. A failed scan
// starts offline.
func NewFromScan(s Scanner) *Oracle {
	online, err := s.Scan()
	if err != nil {
		slog.Warn("Initial connectivity scan failed; assuming offline", logfields.Error(err))
		online = false
	}
	return New(online)
}

// Current returns the latest known reachability.
func (o *Oracle) Current() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.online
}

// Set records a new reachability value and notifies every subscriber, even
// when the value did not change. A subscriber that has not consumed its
// previous update sees only the newest one.
func (o *Oracle) Set(online bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.online = online
	for _, ch := range o.subs {
		select {
		case ch <- online:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- online
		}
	}
}

// Subscribe returns the current value, a channel of subsequent updates and a
// cancel func that closes the channel. Cancel is safe to call more than once.
func (o *Oracle) Subscribe() (initial bool, updates <-chan bool, cancel func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextID
	o.nextID++
	ch := make(chan bool, 1)
	o.subs[id] = ch

	var once sync.Once
	cancel = func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			delete(o.subs, id)
			close(ch)
		})
	}
	return o.online, ch, cancel
}

// CurrentAndStream is Subscribe under the name consumers of the fetch
// pipeline expect.
func (o *Oracle) CurrentAndStream() (bool, <-chan bool, func()) {
	return o.Subscribe()
}

// Subscribers reports how many subscriptions are active.
func (o *Oracle) Subscribers() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.subs)
}
