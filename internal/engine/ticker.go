package engine

import (
	"sync"
	"time"
)

// Ticker emits a tick every keepAlive seconds, restarting the interval from "now" whenever
// reset is called, matching spec.md §4.2: reset is invoked by the Outbound Pipeline on every
// frame send, so a tick (and the PINGREQ it produces) only fires after a full keep-alive
// interval of outbound idleness. A keepAlive of 0 disables the ticker entirely - C() never
// receives a tick and reset/cancel are safe no-ops.
type Ticker struct {
	period time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	tickC   chan struct{}
	stopped bool
}

// NewTicker constructs a Ticker with the given keep-alive interval in seconds. The ticker is
// not armed until the first reset() call, matching the outbound pipeline resetting it on
// every send including the initial CONNECT.
func NewTicker(keepAliveSeconds int) *Ticker {
	t := &Ticker{
		period: time.Duration(keepAliveSeconds) * time.Second,
		tickC:  make(chan struct{}, 1),
	}
	if t.period <= 0 {
		t.stopped = true
		return t
	}
	t.timer = time.AfterFunc(t.period, t.fire)
	t.timer.Stop()
	return t
}

func (t *Ticker) fire() {
	select {
	case t.tickC <- struct{}{}:
	default:
	}
}

// C is the channel a tick is pushed onto; PINGREQ is enqueued by whoever reads it.
func (t *Ticker) C() <-chan struct{} {
	return t.tickC
}

// Reset restarts the interval from now without emitting a tick. Disabled (keepAlive == 0)
// tickers ignore this.
func (t *Ticker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.timer == nil {
		return
	}
	t.timer.Reset(t.period)
}

// Cancel stops the ticker permanently; idempotent.
func (t *Ticker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
	}
}
