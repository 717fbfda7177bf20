// Package reveal provides the single-shot delayed transition used to show a
// skeleton before swapping in page content. A Reveal fires at most once and
// can be cancelled when the owning view goes away; a cancelled Reveal never
// fires and never runs its callbacks.
package reveal

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCancelled is returned by Wait when the reveal was cancelled before it fired.
var ErrCancelled = errors.New("reveal: cancelled before ready")

type state uint8

const (
	statePending state = iota
	stateReady
	stateCancelled
)

// Reveal is a cancellable one-shot timer.
type Reveal struct {
	mu        sync.Mutex
	state     state
	timer     *time.Timer
	ready     chan struct{}
	cancelled chan struct{}
	callbacks []func()
}

// New schedules a reveal after d. Callbacks run once, on the timer goroutine,
// when the reveal fires. A non-positive duration is ready immediately and
// runs callbacks synchronously.
func New(d time.Duration, callbacks ...func()) *Reveal {
	r := &Reveal{
		ready:     make(chan struct{}),
		cancelled: make(chan struct{}),
		callbacks: callbacks,
	}
	if d <= 0 {
		r.fire()
		return r
	}
	r.mu.Lock()
	r.timer = time.AfterFunc(d, r.fire)
	r.mu.Unlock()
	return r
}

// Delayed is the functional form: isReady reports whether the delay elapsed
// and cancel tears the timer down. Calling cancel after the reveal fired is a
// no-op.
func Delayed(d time.Duration) (isReady func() bool, cancel func()) {
	r := New(d)
	return r.IsReady, func() { r.Cancel() }
}

func (r *Reveal) fire() {
	r.mu.Lock()
	if r.state != statePending {
		r.mu.Unlock()
		return
	}
	r.state = stateReady
	callbacks := r.callbacks
	r.callbacks = nil
	close(r.ready)
	r.mu.Unlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb()
		}
	}
}

// Ready is closed once the reveal fires.
func (r *Reveal) Ready() <-chan struct{} {
	return r.ready
}

// IsReady reports whether the reveal has fired.
func (r *Reveal) IsReady() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == stateReady
}

// Cancelled reports whether the reveal was cancelled before firing.
func (r *Reveal) Cancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == stateCancelled
}

// Cancel stops a pending reveal. It returns true when the call prevented the
// reveal from firing.
func (r *Reveal) Cancel() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != statePending {
		return false
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	r.state = stateCancelled
	r.callbacks = nil
	close(r.cancelled)
	return true
}

// Wait blocks until the reveal fires, is cancelled, or ctx is done. When ctx
// ends first the reveal is cancelled so the timer never fires for a view that
// no longer exists.
func (r *Reveal) Wait(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-r.ready:
		return nil
	case <-r.cancelled:
		return ErrCancelled
	case <-ctx.Done():
		if r.Cancel() {
			return ctx.Err()
		}
		if r.IsReady() {
			return nil
		}
		return ctx.Err()
	}
}
