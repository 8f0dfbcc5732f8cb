package config

import (
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/ycmd-go/internal/debug"
)

// Watcher watches the options file and identifier-regex file for changes
// and invokes onReload after a short debounce, the same
// debounce-timer-then-reload shape as the teacher's internal/indexing
// watcher. This supplements, rather than replaces, the required
// /initialize RPC-driven reconfiguration (SPEC_FULL §2.3).
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	onReload func()
	done     chan struct{}
}

// NewWatcher watches paths (skipping any that are empty) and calls
// onReload, debounced by debounce, after any write, create or rename event.
func NewWatcher(paths []string, debounce time.Duration, onReload func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := fsw.Add(p); err != nil {
			debug.Log("config", "not watching %s: %v", p, err)
		}
	}

	w := &Watcher{fsw: fsw, debounce: debounce, onReload: onReload, done: make(chan struct{})}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Rename|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerC = timer.C

		case <-timerC:
			timerC = nil
			w.onReload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			debug.Log("config", "watch error: %v", err)

		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
