// Package watch rebuilds the songbook when its sources change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
)

// DefaultDebounce is how long the watcher waits after the last change
// before rebuilding.
const DefaultDebounce = 500 * time.Millisecond

// RebuildFunc runs one build. Calls never overlap.
type RebuildFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	// Dirs are watched for any change to a non-hidden file.
	Dirs []string
	// Files are watched through their parent directory.
	Files []string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Initial runs a build before the first change.
	Initial bool
}

// Watcher triggers a rebuild after a burst of source changes settles.
type Watcher struct {
	fs       *fsnotify.Watcher
	rebuild  RebuildFunc
	logger   hclog.Logger
	debounce time.Duration
	initial  bool
	dirs     map[string]bool
	files    map[string]bool
}

// New creates a watcher for opts. Missing directories are skipped with a
// warning; at least one path must be watchable.
func New(opts Options, rebuild RebuildFunc, logger hclog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		fs:       fsw,
		rebuild:  rebuild,
		logger:   logger,
		debounce: opts.Debounce,
		initial:  opts.Initial,
		dirs:     make(map[string]bool),
		files:    make(map[string]bool),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	watched := make(map[string]bool)
	add := func(dir string) {
		if watched[dir] {
			return
		}
		if err := fsw.Add(dir); err != nil {
			logger.Warn("⚠️ Cannot watch directory", "dir", dir, "error", err)
			return
		}
		watched[dir] = true
		logger.Debug("👀 Watching", "dir", dir)
	}

	for _, d := range opts.Dirs {
		d = filepath.Clean(d)
		w.dirs[d] = true
		add(d)
	}
	for _, f := range opts.Files {
		f = filepath.Clean(f)
		w.files[f] = true
		add(filepath.Dir(f))
	}

	if len(watched) == 0 {
		fsw.Close()
		return nil, errors.New("nothing to watch")
	}
	return w, nil
}

// Relevant reports whether a change to path should trigger a rebuild.
func (w *Watcher) Relevant(path string) bool {
	path = filepath.Clean(path)
	if w.files[path] {
		return true
	}
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return w.dirs[filepath.Dir(path)]
}

// Run watches until ctx is done and closes the watcher before returning.
// A failed rebuild is logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	if w.initial {
		w.build(ctx)
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	w.logger.Info("👀 Watching for changes", "debounce", w.debounce)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("🛑 Watcher stopped")
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.Relevant(event.Name) {
				continue
			}
			w.logger.Debug("📝 Source changed", "file", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("❌ File watcher error", "error", err)

		case <-timer.C:
			w.build(ctx)
		}
	}
}

func (w *Watcher) build(ctx context.Context) {
	start := time.Now()
	w.logger.Info("🔄 Rebuilding songbook")
	if err := w.rebuild(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Error("❌ Rebuild failed", "error", err)
		return
	}
	w.logger.Info("✅ Rebuild finished", "duration", time.Since(start).Round(time.Millisecond))
}
