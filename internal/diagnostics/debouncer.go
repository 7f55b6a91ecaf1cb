package diagnostics

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of same-key work items arriving within a
// configured window into a single analysis run over the latest payload
// (§4.5, §8: "for any burst of N messages with the same key arriving
// within the window, exactly one analysis runs with the latest payload").
// Grounded on the same debounce-timer shape as internal/fswatch.Watcher
// and teranos-QNTX's am.ConfigWatcher.scheduleReload, generalized to a
// per-key table instead of a single global timer.
type Debouncer struct {
	window time.Duration
	run    func(key string, payload interface{})

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending map[string]interface{}
	wg      sync.WaitGroup
	closed  bool
}

// NewDebouncer creates a Debouncer that calls run(key, payload) once the
// window elapses with no further Schedule call for that key.
func NewDebouncer(window time.Duration, run func(key string, payload interface{})) *Debouncer {
	return &Debouncer{
		window:  window,
		run:     run,
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]interface{}),
	}
}

// Schedule enqueues payload for key, replacing any pending payload for
// the same key and resetting its timer.
func (d *Debouncer) Schedule(key string, payload interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.pending[key] = payload
	if t, ok := d.timers[key]; ok && t.Stop() {
		// the stopped timer's callback will never run its wg.Done()
		d.wg.Done()
	}
	d.wg.Add(1)
	d.timers[key] = time.AfterFunc(d.window, func() {
		defer d.wg.Done()
		d.fire(key)
	})
}

func (d *Debouncer) fire(key string) {
	d.mu.Lock()
	payload, ok := d.pending[key]
	delete(d.pending, key)
	delete(d.timers, key)
	d.mu.Unlock()
	if ok {
		d.run(key, payload)
	}
}

// Shutdown stops accepting new work, drains every pending timer
// immediately, and waits for in-flight runs to finish (§4.5: "A shutdown
// signal drains pending work and exits the worker cleanly").
func (d *Debouncer) Shutdown() {
	d.mu.Lock()
	d.closed = true
	keys := make([]string, 0, len(d.timers))
	for k, t := range d.timers {
		// a timer that already fired runs fire (and its wg.Done) itself
		if t.Stop() {
			keys = append(keys, k)
		}
	}
	d.mu.Unlock()

	for _, k := range keys {
		d.fireNow(k)
	}
	d.wg.Wait()
}

func (d *Debouncer) fireNow(key string) {
	d.mu.Lock()
	payload, ok := d.pending[key]
	delete(d.pending, key)
	d.mu.Unlock()
	if ok {
		d.run(key, payload)
	}
	// the AfterFunc goroutine for this key was stopped before it could
	// run, so its wg.Done() never fires; balance it here.
	d.wg.Done()
}
