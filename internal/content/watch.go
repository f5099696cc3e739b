// ABOUTME: Filesystem watcher that triggers a content reload.
// ABOUTME: Debounces bursts of writes to the content JSON files into one callback.
package content

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last change before reloading.
const DefaultDebounce = 300 * time.Millisecond

var watchedFiles = map[string]bool{
	ConfigFile:     true,
	PostsFile:      true,
	StoriesFile:    true,
	HighlightsFile: true,
}

// Watcher reports changes to the content files of a directory.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher starts watching dir.
func NewWatcher(dir string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return &Watcher{watcher: fw, dir: dir, debounce: DefaultDebounce, logger: logger}, nil
}

// Run calls onChange once per burst of content file changes until ctx is
// done. It closes the underlying watcher before returning.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	defer func() { _ = w.watcher.Close() }()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("content file changed", "file", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("content watcher error", "error", err)

		case <-timer.C:
			w.logger.Info("reloading content", "dir", w.dir)
			onChange()
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if !watchedFiles[filepath.Base(event.Name)] {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
