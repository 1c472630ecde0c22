// Package watch reports changes to a single file, such as the corpus
// snapshot, so the browser can reload it while running.
package watch

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 250 * time.Millisecond

var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrAlreadyStarted = errors.New("watcher already started")
)

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func WithOnError(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// Watcher watches the parent directory of a file, which survives editors
// and tools that replace the file with a rename.
type Watcher struct {
	path     string
	debounce time.Duration
	onError  func(error)

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	timer   *time.Timer
	done    chan struct{}
	started bool

	changed chan struct{}
}

func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		onError:  func(error) {},
		changed:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *Watcher) Path() string { return w.path }

// Changed receives once per debounced burst of writes.
func (w *Watcher) Changed() <-chan struct{} { return w.changed }

func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return ErrAlreadyStarted
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}
	w.fsw = fsw
	w.done = make(chan struct{})
	w.started = true
	go w.loop(fsw, w.done)
	return nil
}

// Stop ends the watch. The Changed channel is left open so a goroutine
// blocked on it is not woken with a spurious change.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	close(w.done)
	w.fsw.Close()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.started = false
}

func (w *Watcher) loop(fsw *fsnotify.Watcher, done <-chan struct{}) {
	target := filepath.Base(w.path)
	for {
		select {
		case <-done:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			switch {
			case ev.Op&fsnotify.Remove != 0:
				w.onError(ErrFileRemoved)
			case ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.trigger()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.notify)
}

func (w *Watcher) notify() {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if !started {
		return
	}
	select {
	case w.changed <- struct{}{}:
	default:
	}
}
