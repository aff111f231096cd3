package preferences

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/recipefeed/internal/logfields"
)

// DefaultDebounce coalesces the burst of events one save produces.
const DefaultDebounce = 100 * time.Millisecond

// Watcher pushes the re-read State whenever the preferences file changes on
// disk, whether through Store or an external editor.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	debounce time.Duration
	updates  chan State
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWatcher creates a watcher for store's file. debounce <= 0 uses DefaultDebounce.
func NewWatcher(store *Store, debounce time.Duration) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		store:    store,
		watcher:  w,
		debounce: debounce,
		updates:  make(chan State, 1),
		stopChan: make(chan struct{}),
	}, nil
}

// Updates delivers the newest State after each change. A slow reader only
// sees the latest value.
func (w *Watcher) Updates() <-chan State { return w.updates }

// Start watches the file's directory, which survives atomic replaces.
func (w *Watcher) Start(ctx context.Context) error {
	absPath, err := filepath.Abs(w.store.Path())
	if err != nil {
		return fmt.Errorf("failed to resolve preferences path: %w", err)
	}
	dir := filepath.Dir(absPath)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch preferences directory %s: %w", dir, err)
	}
	slog.Info("Starting preferences watcher", logfields.Path(absPath))

	w.wg.Add(1)
	go w.loop(ctx, filepath.Base(absPath))
	return nil
}

// Stop ends the watch loop and closes the underlying watcher.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) loop(ctx context.Context, name string) {
	defer w.wg.Done()
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				slog.Debug("Preferences change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Preferences watcher error", logfields.Error(err))
		case <-timer.C:
			w.publish(w.store.Load())
		}
	}
}

func (w *Watcher) publish(st State) {
	select {
	case w.updates <- st:
	default:
		select {
		case <-w.updates:
		default:
		}
		w.updates <- st
	}
}
