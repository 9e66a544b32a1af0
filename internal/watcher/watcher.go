// Package watcher reports changes to catalog files and fixture directories.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a path must stay quiet before onChange runs
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches files and directories of YAML files. For a file, changes
// to that file count; for a directory, changes to any *.yaml or *.yml file
// directly inside it count.
type Watcher struct {
	paths    []string
	onChange func(path string)
	debounce time.Duration
	logger   *zap.Logger
}

// New creates a new watcher. onChange receives the watched path (file or
// directory) that changed.
func New(paths []string, onChange func(path string), logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		paths:    paths,
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   logger,
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Watch blocks until ctx is cancelled. It returns ctx.Err() on cancellation,
// or an error if nothing could be watched.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	// Files are watched through their directory, which survives editors
	// that replace the file on save
	files := make(map[string]string) // file -> watched path
	dirs := make(map[string]string)  // dir -> watched path
	added := make(map[string]bool)
	for _, p := range w.paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}

		watchDir := filepath.Dir(abs)
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			watchDir = abs
			dirs[abs] = p
		} else {
			files[abs] = p
		}

		if !added[watchDir] {
			if err := fw.Add(watchDir); err != nil {
				return err
			}
			added[watchDir] = true
		}
		w.logger.Info("watching for changes", zap.String("path", abs))
	}

	var (
		mu     sync.Mutex
		timers = make(map[string]*time.Timer)
	)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			watched, ok := match(event.Name, files, dirs)
			if !ok {
				continue
			}

			mu.Lock()
			if t, exists := timers[watched]; exists {
				t.Stop()
			}
			timers[watched] = time.AfterFunc(w.debounce, func() {
				if ctx.Err() != nil {
					return
				}
				w.logger.Info("change detected", zap.String("path", watched))
				w.onChange(watched)
			})
			mu.Unlock()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// match maps an event name to the watched path it belongs to
func match(name string, files, dirs map[string]string) (string, bool) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", false
	}
	if p, ok := files[abs]; ok {
		return p, true
	}

	ext := strings.ToLower(filepath.Ext(abs))
	if ext != ".yaml" && ext != ".yml" {
		return "", false
	}
	if p, ok := dirs[filepath.Dir(abs)]; ok {
		return p, true
	}
	return "", false
}
