// Package watch reports when the SQLite database is written by another
// process so an open timeline can refresh.
package watch

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of writes one SQLite commit makes to
// the database, -wal and -shm files.
const DefaultDebounce = 250 * time.Millisecond

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// Watcher signals on Changed after writes to the database file or its
// journal files settle.
type Watcher struct {
	fs       *fsnotify.Watcher
	base     string
	debounce time.Duration
	logger   *slog.Logger

	changed chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// New watches the directory holding dbPath. The directory is watched rather
// than the file because SQLite replaces and creates its journal files.
func New(dbPath string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	w := &Watcher{
		fs:       fsw,
		base:     filepath.Base(dbPath),
		debounce: DefaultDebounce,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		changed:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := fsw.Add(filepath.Dir(dbPath)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(dbPath), err)
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Changed delivers at most one pending signal; bursts collapse into one.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}

// relevant reports whether name is the database or one of its journal files.
func (w *Watcher) relevant(name string) bool {
	return strings.HasPrefix(filepath.Base(name), w.base)
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.logger.Debug("db_changed", "op", event.Op.String(), "file", event.Name)
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch_error", "error", err)
		case <-timer.C:
			select {
			case w.changed <- struct{}{}:
			default:
			}
		}
	}
}
