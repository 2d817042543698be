// Package debounce coalesces bursts of calls per key into one deferred call
// fired after a quiet window.
package debounce

import (
	"sync"
	"time"
)

type Debouncer struct {
	window time.Duration

	mu      sync.Mutex
	pending map[string]*entry
	stopped bool
	running sync.WaitGroup
}

type entry struct {
	timer *time.Timer
	fn    func()
}

func New(window time.Duration) *Debouncer {
	return &Debouncer{
		window:  window,
		pending: make(map[string]*entry),
	}
}

// Trigger (re)starts the quiet window for key. Only the fn passed with the
// last Trigger before the window elapses runs.
func (d *Debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if prev, ok := d.pending[key]; ok && prev.timer.Stop() {
		d.running.Done()
	}

	e := &entry{fn: fn}
	d.running.Add(1)
	e.timer = time.AfterFunc(d.window, func() { d.fire(key, e) })
	d.pending[key] = e
}

func (d *Debouncer) fire(key string, e *entry) {
	defer d.running.Done()

	d.mu.Lock()
	current, ok := d.pending[key]
	if !ok || current != e {
		// superseded after the timer already fired
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()

	e.fn()
}

// Cancel drops the pending call for key, if any.
func (d *Debouncer) Cancel(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.pending[key]
	if !ok {
		return false
	}
	delete(d.pending, key)
	if e.timer.Stop() {
		d.running.Done()
	}
	return true
}

func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Flush runs every pending call now and waits until all calls, including the
// ones already fired, have returned.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	var due []func()
	for key, e := range d.pending {
		if e.timer.Stop() {
			due = append(due, e.fn)
			delete(d.pending, key)
		}
	}
	d.mu.Unlock()

	for _, fn := range due {
		fn()
		d.running.Done()
	}
	d.running.Wait()
}

// Stop discards pending calls, waits for running ones and rejects new ones.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	for key, e := range d.pending {
		if e.timer.Stop() {
			d.running.Done()
		}
		delete(d.pending, key)
	}
	d.mu.Unlock()

	d.running.Wait()
}
