// Package watcher reports files that appear in a directory. It backs the
// --watch trigger of the dashboard: each new file starts a run.
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/agbru/omnisum/internal/logging"
)

const (
	defaultSettle = 250 * time.Millisecond
	queueSize     = 16
)

// ErrNotDirectory is returned when the watched path is not a directory.
var ErrNotDirectory = errors.New("watch path is not a directory")

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettle sets how long a new file must stay quiet before it is reported.
// Writers that create then fill a file produce a single report.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// WithLogger sets the logger used for dropped files and watch errors.
func WithLogger(l logging.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// Watcher emits the paths of regular files created in one directory.
type Watcher struct {
	dir    string
	fs     *fsnotify.Watcher
	files  chan string
	done   chan struct{}
	settle time.Duration
	logger logging.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
	wg      sync.WaitGroup
}

// New starts watching dir.
func New(dir string, opts ...Option) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, ErrNotDirectory
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		dir:     dir,
		fs:      fsw,
		files:   make(chan string, queueSize),
		done:    make(chan struct{}),
		settle:  defaultSettle,
		logger:  logging.Discard,
		pending: make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string { return w.dir }

// Files returns the channel of new file paths. It is never closed; select on
// it together with your own shutdown signal.
func (w *Watcher) Files() <-chan string { return w.files }

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", err, logging.String("dir", w.dir))
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return
	}
	switch {
	case ev.Has(fsnotify.Create):
		w.schedule(ev.Name, true)
	case ev.Has(fsnotify.Write):
		w.schedule(ev.Name, false)
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.cancel(ev.Name)
	}
}

// schedule arms or re-arms the settle timer of path. Writes only extend a
// timer armed by a Create.
func (w *Watcher) schedule(path string, created bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.settle)
		return
	}
	if !created {
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() { w.emit(path) })
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) emit(path string) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	w.mu.Unlock()

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}
	select {
	case w.files <- path:
	case <-w.done:
	default:
		w.logger.Info("watch queue full, file skipped", logging.String("path", path))
	}
}
