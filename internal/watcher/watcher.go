// Package watcher watches the glossary file and signals once a change has
// settled. Writes are debounced and the file size must be stable before a
// notification goes out, so large files are never read half-written.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/acro/internal/log"
)

// Watcher monitors a single file for content changes.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	cfg       Config
	onChange  chan struct{}
	done      chan struct{}
	stopped   chan struct{}
	sizeOf    func(string) int64

	mu       sync.Mutex
	started  bool
	stopOnce sync.Once
	stopErr  error
}

// Config holds watcher configuration options.
type Config struct {
	// Path is the file to watch.
	Path string
	// Debounce is the quiet period required after the last write.
	Debounce time.Duration
	// PollInterval is how long to wait before re-checking a file whose
	// size was still changing when the quiet period ended.
	PollInterval time.Duration
	// AtomicWindow is how soon after a remove a re-create still counts as
	// an in-place save rather than a new file.
	AtomicWindow time.Duration
}

// DefaultConfig returns the defaults for watching path.
func DefaultConfig(path string) Config {
	return Config{
		Path:         path,
		Debounce:     1 * time.Second,
		PollInterval: 100 * time.Millisecond,
		AtomicWindow: 100 * time.Millisecond,
	}
}

// New creates a watcher. Nothing is observed until Start.
func New(cfg Config) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("watcher: path is required")
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", cfg.Path, err)
	}
	cfg.Path = abs
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = cfg.Debounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		cfg:       cfg,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
		sizeOf:    fileSize,
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.cfg.Path
}

// Start begins watching. The returned channel receives one value per
// settled change; changes that land while a value is pending are merged.
// Calling Start again returns the same channel without adding the path a
// second time.
func (w *Watcher) Start() (<-chan struct{}, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return w.onChange, nil
	}

	if isHidden(w.cfg.Path) {
		log.Warn(log.CatWatcher, "Hidden files are never reloaded", "path", w.cfg.Path)
	}

	// Watch the directory so that saves which replace the file are seen.
	dir := filepath.Dir(w.cfg.Path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", dir, err)
	}

	w.started = true
	go w.loop()

	log.Debug(log.CatWatcher, "Watching", "path", w.cfg.Path, "debounce", w.cfg.Debounce)
	return w.onChange, nil
}

// Stop releases the OS watch handle and waits for the event loop to exit.
// It is safe to call more than once.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		close(w.done)
		w.stopErr = w.fsWatcher.Close()

		w.mu.Lock()
		started := w.started
		w.mu.Unlock()
		if started {
			<-w.stopped
		}
	})
	return w.stopErr
}

func (w *Watcher) loop() {
	defer close(w.stopped)

	var (
		timer     *time.Timer
		lastSize  int64 = -1
		exists          = fileExists(w.cfg.Path)
		removedAt time.Time
	)

	arm := func(d time.Duration) {
		if timer == nil {
			timer = time.NewTimer(d)
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(d)
	}
	disarm := func() {
		if timer != nil {
			timer.Stop()
			timer = nil
		}
	}
	timerC := func() <-chan time.Time {
		if timer != nil {
			return timer.C
		}
		return nil
	}

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				disarm()
				return
			}
			if !w.isTarget(event.Name) {
				continue
			}

			switch {
			case event.Has(fsnotify.Write):
				lastSize = w.sizeOf(w.cfg.Path)
				arm(w.cfg.Debounce)
			case event.Has(fsnotify.Create):
				replaced := exists || time.Since(removedAt) <= w.cfg.AtomicWindow
				exists = true
				if !replaced {
					log.Debug(log.CatWatcher, "Ignoring creation", "path", event.Name)
					continue
				}
				lastSize = w.sizeOf(w.cfg.Path)
				arm(w.cfg.Debounce)
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				exists = false
				removedAt = time.Now()
			}

		case <-timerC():
			timer = nil
			size := w.sizeOf(w.cfg.Path)
			if size < 0 {
				// Gone again; a later create decides what happens.
				continue
			}
			if size != lastSize {
				lastSize = size
				arm(w.cfg.PollInterval)
				continue
			}
			select {
			case w.onChange <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				disarm()
				return
			}
			log.ErrorErr(log.CatWatcher, "Watcher error", err, "path", w.cfg.Path)

		case <-w.done:
			disarm()
			return
		}
	}
}

// isTarget reports whether name is the watched file and not a hidden file.
func (w *Watcher) isTarget(name string) bool {
	if isHidden(name) {
		return false
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return abs == w.cfg.Path
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return -1
	}
	return fi.Size()
}
