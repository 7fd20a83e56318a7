package vocab

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is how long the watcher waits for further writes before
// notifying, so a temp-write-then-rename counts as one change.
const defaultDebounce = 500 * time.Millisecond

// Watcher observes the durable snapshot file and invokes a callback after
// out-of-band changes, letting the runtime cache follow edits made by
// another process.
type Watcher struct {
	fsw      *fsnotify.Watcher
	onChange func()
	path     string
	debounce time.Duration
}

// NewWatcher creates a watcher for the snapshot at path. onChange runs on
// the watcher goroutine after each debounced change.
func NewWatcher(path string, debounce time.Duration, onChange func()) (*Watcher, error) {
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory: renames onto the snapshot path would otherwise
	// detach a watch on the file itself.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch snapshot directory: %w", err)
	}

	return &Watcher{
		fsw:      fsw,
		path:     path,
		debounce: debounce,
		onChange: onChange,
	}, nil
}

// Start runs the watch loop until the context is canceled or the watcher
// is closed.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time

	base := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("snapshot watcher error", "path", w.path, "error", err)
		case <-fire:
			timer = nil
			fire = nil
			slog.Debug("snapshot changed on disk", "path", w.path)
			w.onChange()
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
