package internal

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	tt "github.com/filacheck/filacheck/internal/types"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 100 * time.Millisecond

// Watcher re-checks files when they are written.
type Watcher struct {
	dirs      []string
	newEngine func() (*Engine, error)
	include   func(path string) bool
	skipDir   func(path string) bool
	report    func(file string, violations []tt.Violation)
	debounce  time.Duration
	logger    *zap.Logger
}

type WatcherOption func(*Watcher)

// WithFileFilter restricts the checked files to those include accepts.
func WithFileFilter(include func(path string) bool) WatcherOption {
	return func(w *Watcher) {
		w.include = include
	}
}

// WithDirFilter stops directories skip accepts from being watched.
func WithDirFilter(skip func(path string) bool) WatcherOption {
	return func(w *Watcher) {
		w.skipDir = skip
	}
}

func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

func WithWatchLogger(logger *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// NewWatcher returns a Watcher over dirs. Each batch of changed files is
// checked by a fresh engine from newEngine, so rules start without
// bookkeeping from earlier versions of the files.
func NewWatcher(dirs []string, newEngine func() (*Engine, error), report func(string, []tt.Violation), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		dirs:      dirs,
		newEngine: newEngine,
		report:    report,
		include:   func(string) bool { return true },
		skipDir:   func(string) bool { return false },
		debounce:  defaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	return w
}

// Watch blocks until ctx is done or the file watcher fails.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range w.dirs {
		if err := w.addTree(watcher, dir); err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.handleFileEvent(watcher, event) {
				pending[event.Name] = struct{}{}
				// wait for a while after file change to consider multiple changes as one
				timer.Reset(w.debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		case <-timer.C:
			w.process(ctx, pending)
			pending = make(map[string]struct{})
		}
	}
}

func (w *Watcher) addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skipDir(path) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// handleFileEvent reports whether the event changed a file to check.
// New directories are added to the watcher.
func (w *Watcher) handleFileEvent(watcher *fsnotify.Watcher, event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.skipDir(event.Name) {
				if err := w.addTree(watcher, event.Name); err != nil {
					w.logger.Warn("failed to watch directory", zap.String("dir", event.Name), zap.Error(err))
				}
			}
			return false
		}
	}
	return w.include(event.Name)
}

func (w *Watcher) process(ctx context.Context, pending map[string]struct{}) {
	if len(pending) == 0 {
		return
	}
	files := make([]string, 0, len(pending))
	for file := range pending {
		files = append(files, file)
	}
	sort.Strings(files)

	engine, err := w.newEngine()
	if err != nil {
		w.logger.Error("failed to create engine", zap.Error(err))
		return
	}
	for _, file := range files {
		violations, err := engine.Run(ctx, file)
		if err != nil {
			w.logger.Warn("failed to check file", zap.String("file", file), zap.Error(err))
			continue
		}
		w.report(file, violations)
	}
}
