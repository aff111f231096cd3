package connectivity

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/recipefeed/internal/logfields"
)

// Prober re-runs a Scanner on an interval and pushes changes into an Oracle.
// It is the asynchronous availability/loss source; it only calls Set when the
// scan result differs from the oracle's current value.
type Prober struct {
	oracle    *Oracle
	scanner   Scanner
	interval  time.Duration
	scheduler gocron.Scheduler
	mu        sync.Mutex
}

// NewProber builds a prober. Start must be called to begin probing.
func NewProber(oracle *Oracle, scanner Scanner, interval time.Duration) (*Prober, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("probe interval must be positive, got %s", interval)
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Prober{oracle: oracle, scanner: scanner, interval: interval, scheduler: s}, nil
}

// Start schedules the probe job and starts the scheduler.
func (p *Prober) Start() error {
	_, err := p.scheduler.NewJob(
		gocron.DurationJob(p.interval),
		gocron.NewTask(p.Probe),
		gocron.WithName("connectivity-probe"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create connectivity probe job: %w", err)
	}
	slog.Info("Starting connectivity prober", slog.Duration("interval", p.interval))
	p.scheduler.Start()
	return nil
}

// Stop shuts the scheduler down.
func (p *Prober) Stop() error {
	slog.Info("Stopping connectivity prober")
	return p.scheduler.Shutdown()
}

// Probe runs one scan. A failed scan counts as offline.
func (p *Prober) Probe() {
	p.mu.Lock()
	defer p.mu.Unlock()

	online, err := p.scanner.Scan()
	if err != nil {
		slog.Warn("Connectivity scan failed", logfields.Error(err))
		online = false
	}
	if online == p.oracle.Current() {
		return
	}
	slog.Info("Connectivity changed", logfields.Online(online))
	p.oracle.Set(online)
}
