package contribution

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kbukum/extkit/component"
	"github.com/kbukum/extkit/extension"
	"github.com/kbukum/extkit/logger"
)

// DefaultDebounce is the quiet period after the last file event before
// change callbacks run.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors a contribution directory and runs the registered change
// callbacks once per burst of YAML file events.
type Watcher struct {
	dir      string
	debounce time.Duration
	log      *logger.Logger

	mu        sync.Mutex
	callbacks []func()
	fsw       *fsnotify.Watcher
	done      chan struct{}
	stopped   chan struct{}
	lastErr   error
}

// NewWatcher returns a watcher for dir. It does nothing until Start.
func NewWatcher(dir string, debounce time.Duration, log *logger.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logger.Get("contribution")
	}
	return &Watcher{dir: dir, debounce: debounce, log: log}
}

// OnChange registers fn to run after contribution files change. Callbacks
// run on the watcher goroutine in registration order; a panicking callback
// is logged and does not stop the others.
func (w *Watcher) OnChange(fn func()) {
	w.mu.Lock()
	w.callbacks = append(w.callbacks, fn)
	w.mu.Unlock()
}

func (w *Watcher) Name() string { return "contribution-watcher" }

func (w *Watcher) Describe() component.Description {
	return component.Description{
		Type:    "watcher",
		Details: fmt.Sprintf("%s debounce=%s", w.dir, w.debounce),
	}
}

// Start begins watching the directory.
func (w *Watcher) Start(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw != nil {
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watching directory %s: %w", w.dir, err)
	}
	w.fsw = fsw
	w.done = make(chan struct{})
	w.stopped = make(chan struct{})
	w.lastErr = nil
	go w.loop(fsw, w.done, w.stopped)
	w.log.Info("watching contributions", logger.Fields("dir", w.dir))
	return nil
}

// Stop terminates the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop(ctx context.Context) error {
	w.mu.Lock()
	fsw, done, stopped := w.fsw, w.done, w.stopped
	w.fsw = nil
	w.mu.Unlock()
	if fsw == nil {
		return nil
	}
	close(done)
	err := fsw.Close()
	select {
	case <-stopped:
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}

// Health reports unhealthy when the watcher is not running and degraded
// after a watch error.
func (w *Watcher) Health(_ context.Context) component.Health {
	w.mu.Lock()
	defer w.mu.Unlock()
	h := component.Health{Name: w.Name(), Status: component.StatusHealthy}
	switch {
	case w.fsw == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "not running"
	case w.lastErr != nil:
		h.Status = component.StatusDegraded
		h.Message = w.lastErr.Error()
	}
	return h
}

func (w *Watcher) loop(fsw *fsnotify.Watcher, done, stopped chan struct{}) {
	defer close(stopped)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			w.fire()

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.mu.Lock()
			w.lastErr = err
			w.mu.Unlock()
			w.log.Warn("contribution watch error", logger.ErrorFields("watch", err))

		case <-done:
			return
		}
	}
}

func (w *Watcher) fire() {
	w.mu.Lock()
	callbacks := append([]func(){}, w.callbacks...)
	w.mu.Unlock()

	w.log.Debug("contributions changed", logger.Fields("dir", w.dir, "callbacks", len(callbacks)))
	for _, fn := range callbacks {
		if err := extension.Protect(fn); err != nil {
			w.log.Error("contribution change callback failed", logger.ErrorFields("on_change", err))
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return IsContributionFile(filepath.Base(event.Name))
}
