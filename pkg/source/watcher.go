package source

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/envtree/logging"
	"github.com/sirupsen/logrus"
)

// ChangeFunc receives the reloaded document, or the error that prevented
// loading it.
type ChangeFunc func(doc *Document, err error)

// Watcher reloads a source document when it changes on disk.
type Watcher struct {
	watcher  *fsnotify.Watcher
	loader   *Loader
	debounce time.Duration
	onChange ChangeFunc
	logger   *logrus.Entry

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// NewWatcher watches the directory holding loader's document. Editors often
// replace files instead of writing them in place, so the directory is watched
// rather than the file. Bursts of events within debounceMs trigger a single
// reload after the burst ends.
func NewWatcher(loader *Loader, debounceMs int, onChange ChangeFunc) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(loader.Path())); err != nil {
		watcher.Close()
		return nil, err
	}

	if debounceMs <= 0 {
		debounceMs = 100
	}

	return &Watcher{
		watcher:  watcher,
		loader:   loader,
		debounce: time.Duration(debounceMs) * time.Millisecond,
		onChange: onChange,
		logger:   logging.NewLogger("envtree-watcher"),
	}, nil
}

// Start processes file events. It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	defer w.Close()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.loader.Path() {
				continue
			}
			w.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.schedule()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			return
		}
	}
}

// schedule (re)arms the reload timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	doc, err := w.loader.Load()
	if err != nil {
		w.logger.WithError(err).Warn("Failed to reload source document")
	} else {
		w.logger.Infof("Source changed: %s", filepath.Base(w.loader.Path()))
	}
	if w.onChange != nil {
		w.onChange(doc, err)
	}
}

// Close stops watching. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	return w.watcher.Close()
}
