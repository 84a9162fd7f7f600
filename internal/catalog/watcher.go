package catalog

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads the remedy catalog when its file changes. Only
// remedy data is reloadable; the model itself is constructed once and
// never replaced.
type Watcher struct {
	path    string
	catalog *Catalog
	reloads atomic.Uint32
}

// NewWatcher starts watching path and swaps reloaded entries into the
// catalog.
func NewWatcher(path string, catalog *Catalog) *Watcher {
	w := &Watcher{
		path:    path,
		catalog: catalog,
	}

	go w.watch()

	return w
}

// watch watches for remedy file changes.
func (w *Watcher) watch() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Error("Failed to create file watcher", "error", err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(w.path); err != nil {
		slog.Error("Failed to watch remedy file", "path", w.path, "error", err)
		return
	}

	var timer *time.Timer
	const debounce = 500 * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Write == fsnotify.Write {
				if timer != nil {
					timer.Stop()
				}

				timer = time.AfterFunc(debounce, func() {
					w.reload()
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}

			slog.Error("Watcher error", "error", err)
		}
	}
}

// reload re-reads the remedy file and swaps the entries in.
func (w *Watcher) reload() {
	count := w.reloads.Add(1)
	slog.Info("Reloading remedy catalog", "path", w.path, "count", count)

	entries, err := readEntries(w.path)
	if err != nil {
		slog.Error("Failed to reload remedy catalog", "error", err)
		return
	}

	w.catalog.Replace(entries)
	slog.Info("Remedy catalog reloaded", "entries", len(entries), "count", count)
}

// ReloadCount returns the number of successful reload attempts.
func (w *Watcher) ReloadCount() uint32 {
	return w.reloads.Load()
}
