// Package timer keeps per-visit elapsed-second counters driven by a
// recurring tick, one ticker goroutine per id at most.
package timer

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultInterval is the tick period of a running counter.
const DefaultInterval = time.Second

// TickSource creates a tick channel firing every d, and a func that stops it.
type TickSource func(d time.Duration) (<-chan time.Time, func())

// Option configures a Registry.
type Option func(*Registry)

// WithInterval sets the tick period. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithTickSource replaces the wall-clock ticker, e.g. with simulated ticks in tests.
func WithTickSource(src TickSource) Option {
	return func(r *Registry) {
		if src != nil {
			r.newTick = src
		}
	}
}

func wallClock(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// counter is one visit's elapsed seconds and, while running, its ticker goroutine.
type counter struct {
	elapsed atomic.Int64
	stop    chan struct{}
	done    chan struct{}
}

func (c *counter) running() bool {
	return c.stop != nil
}

// Registry tracks elapsed seconds per visit id. It is safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	counters map[string]*counter
	interval time.Duration
	newTick  TickSource
}

// New creates an empty registry ticking once per second.
func New(opts ...Option) *Registry {
	r := &Registry{
		counters: make(map[string]*counter),
		interval: DefaultInterval,
		newTick:  wallClock,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins counting for id from initialSeconds. A ticker already running
// for id is stopped first.
func (r *Registry) Start(id string, initialSeconds int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.counters[id]; ok {
		c.halt()
	}

	ticks, stopTicks := r.newTick(r.interval)
	c := &counter{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	c.elapsed.Store(initialSeconds)
	r.counters[id] = c

	go c.run(c.stop, ticks, stopTicks)
}

// run increments the counter on every tick until halted.
func (c *counter) run(stop <-chan struct{}, ticks <-chan time.Time, stopTicks func()) {
	defer close(c.done)
	defer stopTicks()

	for {
		select {
		case <-stop:
			return
		case <-ticks:
			c.elapsed.Add(1)
		}
	}
}

// halt stops the ticker goroutine and waits for it to exit. Ticks received
// before halt returns are counted.
func (c *counter) halt() {
	if !c.running() {
		return
	}
	close(c.stop)
	<-c.done
	c.stop = nil
}

// Stop halts ticking for id and keeps the last value. Stopping an id that is
// not running is a no-op.
func (r *Registry) Stop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.counters[id]; ok {
		c.halt()
	}
}

// Elapsed returns the current counter for id, or 0 if it was never started.
func (r *Registry) Elapsed(id string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.counters[id]
	if !ok {
		return 0
	}
	return c.elapsed.Load()
}

// Reset stops any ticker for id and clears its counter to 0.
func (r *Registry) Reset(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.counters[id]; ok {
		c.halt()
		delete(r.counters, id)
	}
}

// Running reports whether id currently has a live ticker.
func (r *Registry) Running(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.counters[id]
	return ok && c.running()
}

// Active returns the number of live tickers.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, c := range r.counters {
		if c.running() {
			n++
		}
	}
	return n
}

// StopAll halts every live ticker, keeping the counters.
func (r *Registry) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.counters {
		c.halt()
	}
}
