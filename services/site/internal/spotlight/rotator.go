// Package spotlight rotates through the trending list on the home page.
package spotlight

import (
	"context"
	"sync"
	"time"
)

const DefaultInterval = 5 * time.Second

// Ticker is the part of *time.Ticker the rotator uses.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

type loop struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Rotator advances an index over items on a fixed period. A ticker runs only
// while the rotator is active and items is non-empty.
type Rotator[T any] struct {
	mu       sync.Mutex
	interval time.Duration
	items    []T
	idx      int
	parent   context.Context
	loop     *loop

	newTicker func(time.Duration) Ticker
	onAdvance func(int)
}

func NewRotator[T any](interval time.Duration) *Rotator[T] {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Rotator[T]{interval: interval, newTicker: newTimeTicker}
}

// Activate starts rotating once there is something to rotate. Cancelling
// ctx has the same effect as Deactivate, minus the wait.
func (r *Rotator[T]) Activate(ctx context.Context) {
	r.mu.Lock()
	if r.parent != nil && r.parent.Err() == nil {
		r.mu.Unlock()
		return
	}
	// A cancelled parent counts as inactive even before its loop has
	// cleaned up after itself.
	l := r.stopLocked()
	r.parent = ctx
	r.startLocked()
	r.mu.Unlock()
	wait(l)
}

// Deactivate stops the ticker and returns once its goroutine has exited.
func (r *Rotator[T]) Deactivate() {
	r.mu.Lock()
	r.parent = nil
	l := r.stopLocked()
	r.mu.Unlock()
	wait(l)
}

// SetItems replaces the list and rewinds to the first item. An empty list
// releases the ticker.
func (r *Rotator[T]) SetItems(items []T) {
	r.mu.Lock()
	r.items = items
	r.idx = 0
	var l *loop
	if len(items) == 0 {
		l = r.stopLocked()
	} else {
		r.startLocked()
	}
	r.mu.Unlock()
	wait(l)
}

func (r *Rotator[T]) Advance() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advanceLocked()
}

func (r *Rotator[T]) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.idx
}

func (r *Rotator[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Current returns the item on show, false while the list is empty.
func (r *Rotator[T]) Current() (T, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	if len(r.items) == 0 {
		return zero, 0, false
	}
	return r.items[r.idx], r.idx, true
}

// Running reports whether a ticker is held.
func (r *Rotator[T]) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loop != nil
}

func (r *Rotator[T]) advanceLocked() {
	if len(r.items) == 0 {
		return
	}
	r.idx = (r.idx + 1) % len(r.items)
	if r.onAdvance != nil {
		r.onAdvance(r.idx)
	}
}

func (r *Rotator[T]) startLocked() {
	if r.parent == nil || r.loop != nil || len(r.items) == 0 {
		return
	}
	ctx, cancel := context.WithCancel(r.parent)
	l := &loop{cancel: cancel, done: make(chan struct{})}
	r.loop = l
	t := r.newTicker(r.interval)
	go r.run(ctx, t, l)
}

// stopLocked cancels the loop. The caller must wait on the result after
// releasing mu, since the loop takes mu on every tick.
func (r *Rotator[T]) stopLocked() *loop {
	l := r.loop
	r.loop = nil
	if l != nil {
		l.cancel()
	}
	return l
}

func wait(l *loop) {
	if l != nil {
		<-l.done
	}
}

func (r *Rotator[T]) run(ctx context.Context, t Ticker, l *loop) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			// Release the ticker before the rotator can report inactive.
			t.Stop()
			r.mu.Lock()
			if r.loop == l {
				// Parent cancelled rather than stopped by us.
				r.loop = nil
				r.parent = nil
			}
			r.mu.Unlock()
			return
		case <-t.C():
			r.mu.Lock()
			if ctx.Err() == nil {
				r.advanceLocked()
			}
			r.mu.Unlock()
		}
	}
}
