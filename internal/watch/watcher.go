// Package watch reloads settings when the config file changes on disk.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/muxtab/muxtab/internal/config"
	"github.com/muxtab/muxtab/internal/logger"
)

// SettingsEvent carries the freshly loaded settings after a config change.
type SettingsEvent struct {
	Settings config.Settings
}

// Watcher watches the data directory for edits to the settings file. Editors
// produce bursts of write events per save, so changes are debounced before a
// reload is attempted. Parse failures keep the previous settings and emit
// nothing.
type Watcher struct {
	watcher       *fsnotify.Watcher
	settingsPath  string
	changes       chan SettingsEvent
	done          chan struct{}
	debounceTimer *time.Timer
	debounce      time.Duration

	// mu orders reload's send against Stop closing changes: a debounce
	// timer that already fired when Stop runs must not send on a closed
	// channel.
	mu     sync.Mutex
	closed bool
}

// NewWatcher creates a settings watcher. It does not start watching until
// Start is called.
func NewWatcher(settingsPath string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		watcher:      fsWatcher,
		settingsPath: settingsPath,
		changes:      make(chan SettingsEvent, 10),
		done:         make(chan struct{}),
		debounce:     100 * time.Millisecond,
	}, nil
}

// Start begins watching the directory containing the settings file. The
// directory is watched rather than the file so atomic-rename saves (vim,
// sed -i) keep being seen after the inode changes.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.settingsPath)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	go w.watch()
	return nil
}

// Stop stops the watcher
func (w *Watcher) Stop() {
	close(w.done)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.watcher.Close()

	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	close(w.changes)
}

// Changes returns the channel settings reload events arrive on.
func (w *Watcher) Changes() <-chan SettingsEvent {
	return w.changes
}

// watch is the main event loop
func (w *Watcher) watch() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.settingsPath) {
				continue
			}

			// Reset debounce timer
			if w.debounceTimer != nil {
				w.debounceTimer.Stop()
			}
			w.debounceTimer = time.AfterFunc(w.debounce, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("settings watcher error", "error", err)
		}
	}
}

// reload parses the settings file and publishes the result after debounce
func (w *Watcher) reload() {
	settings, err := config.LoadSettings(w.settingsPath)
	if err != nil {
		logger.Warn("settings reload skipped", "path", w.settingsPath, "error", err)
		return
	}

	// Timer.Stop cannot stop a timer that already fired, so this can run
	// concurrently with Stop. The closed flag is checked under the same
	// lock Stop takes before closing the channel.
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.changes <- SettingsEvent{Settings: settings}:
	default:
		// A full buffer means the receiver is behind; the next change
		// re-emits.
	}
}
