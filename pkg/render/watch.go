package render

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses bursts of events for the same file, as editors
// often write a file several times per save.
const DefaultDebounce = 100 * time.Millisecond

// WatchFunc receives every re-render result. err is a *FileError when the
// file could not be stamped; the watch continues either way.
type WatchFunc func(out Output, err error)

// Watch renders every file matching pattern, then re-renders each file that
// is created or written until ctx is done. Directories below the glob base
// are watched, including ones created later.
func (r *Renderer) Watch(ctx context.Context, pattern string, fn WatchFunc) error {
	return r.watch(ctx, pattern, DefaultDebounce, fn)
}

func (r *Renderer) watch(ctx context.Context, pattern string, debounce time.Duration, fn WatchFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	base := Base(pattern)
	if err := r.addTree(watcher, base); err != nil {
		return err
	}

	outputs, err := r.RenderGlob(ctx, pattern)
	if err != nil {
		return err
	}
	for _, out := range outputs {
		fn(out, nil)
	}

	slashPattern := filepath.ToSlash(pattern)
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounce / 2)
	defer ticker.Stop()

	log := r.logger()
	log.Info("watching for changes", "pattern", pattern, "base", base)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 || r.isOutput(event.Name) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				// New directories need their own watch.
				_ = r.addTree(watcher, event.Name)
			}
			if ok, _ := doublestar.Match(slashPattern, filepath.ToSlash(event.Name)); ok {
				pending[event.Name] = time.Now()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)

		case now := <-ticker.C:
			for path, seen := range pending {
				if now.Sub(seen) < debounce {
					continue
				}
				delete(pending, path)
				out, err := r.renderFile(ctx, base, path)
				if err != nil {
					log.Warn("render failed", "source", path, "error", err)
				}
				fn(out, err)
			}
		}
	}
}

// addTree watches root and every directory below it. A regular file is
// ignored.
func (r *Renderer) addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if r.isOutput(path) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
