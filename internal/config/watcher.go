package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceDelay is how long the watcher waits for writes to settle before
// reloading.
const DebounceDelay = 100 * time.Millisecond

// Watcher reloads a config file when it changes. Reloaded settings arrive
// on Updates; the consumer applies them on its own goroutine, so an engine
// never sees a change in the middle of a key.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan Settings
	errs    chan error
	done    chan struct{}

	mu    sync.Mutex
	timer *time.Timer

	closeOnce sync.Once
	closeErr  error
}

// Watch starts watching path. The directory is watched rather than the file
// so editors that replace the file on save are noticed.
func Watch(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	w := &Watcher{
		path:    path,
		watcher: fw,
		updates: make(chan Settings, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Updates delivers the latest settings. Only the newest pending update is
// kept. The channel is never closed.
func (w *Watcher) Updates() <-chan Settings { return w.updates }

func (w *Watcher) Errors() <-chan error { return w.errs }

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(DebounceDelay, w.reload)
}

func (w *Watcher) reload() {
	select {
	case <-w.done:
		return
	default:
	}
	settings, err := Load(w.path)
	if err != nil {
		w.report(fmt.Errorf("reload config: %w", err))
		return
	}
	// drop a pending update nobody picked up
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- settings:
	default:
	}
}

func (w *Watcher) report(err error) {
	select {
	case w.errs <- err:
	default:
	}
}

// Close stops the watcher. It is safe to call more than once and from
// several goroutines; every call returns the result of the first.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		close(w.done)
		w.closeErr = w.watcher.Close()
	})
	return w.closeErr
}
