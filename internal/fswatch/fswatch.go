// Package fswatch watches a single auxiliary-output directory
// non-recursively and re-loads changed files through the workspace (§4.3).
// Grounded on teranos-QNTX's am.ConfigWatcher: an fsnotify.Watcher run on
// its own goroutine, debounced per-path via time.AfterFunc, with watcher
// errors logged rather than propagated.
package fswatch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/texls/texls/internal/log"
)

// LoadFunc is called with the full path of a file that was created or
// modified. Implemented by the workspace layer's Load (uri.FromPath(path)
// then Load) so this package stays ignorant of Uri/Store details.
type LoadFunc func(path string)

// DefaultPatterns matches the auxiliary/log artefacts a typesetting run
// produces (§4.3's "auxiliary directory" watch target): the files a build
// engine writes that this server in turn reads back for label-number and
// build-log information.
var DefaultPatterns = []string{"*.aux", "*.log", "*.bbl", "*.blg"}

// Watcher watches one directory (non-recursively) and calls Load for
// every create/write event whose base name matches one of patterns,
// debounced per path so a burst of writes to the same file triggers a
// single reload (§4.3, mirroring the debounce shape used throughout this
// codebase's diagnostics pipeline). A nil or empty patterns matches every
// file.
type Watcher struct {
	fsw            *fsnotify.Watcher
	patterns       []string
	load           LoadFunc
	debouncePeriod time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer

	done chan struct{}
}

// New starts watching dir non-recursively. Failures to construct the
// underlying watcher or to add dir are returned; once running, per-event
// errors are logged and swallowed so the watcher never poisons the
// workspace (§4.3: "Failures are swallowed").
func New(dir string, patterns []string, load LoadFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	w := &Watcher{
		fsw:            fsw,
		patterns:       patterns,
		load:           load,
		debouncePeriod: 200 * time.Millisecond,
		timers:         make(map[string]*time.Timer),
		done:           make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if IsBackupArtifact(event.Name) || !w.matches(event.Name) {
				continue
			}
			w.scheduleReload(event.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn("fswatch: watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

// matches reports whether path's base name satisfies one of w.patterns.
func (w *Watcher) matches(path string) bool {
	if len(w.patterns) == 0 {
		return true
	}
	base := filepath.Base(path)
	for _, pattern := range w.patterns {
		if ok, err := doublestar.Match(pattern, base); ok && err == nil {
			return true
		}
	}
	return false
}

func (w *Watcher) scheduleReload(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debouncePeriod, func() {
		w.load(path)
	})
}

// Close stops watching and releases the underlying inotify handle.
func (w *Watcher) Close() error {
	close(w.done)
	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}

// IsBackupArtifact reports whether path looks like an editor/tool backup
// file that should never trigger a reload (e.g. chktex's ".bak" outputs).
func IsBackupArtifact(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".bak" || ext == ".tmp" || ext == ".swp"
}
