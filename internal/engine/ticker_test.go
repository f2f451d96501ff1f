package engine

import (
	"testing"
	"time"

	"github.com/mezquit/mezquit/testutils"
)

func TestTickerDisabledWhenKeepAliveZero(t *testing.T) {
	ticker := NewTicker(0)
	ticker.Reset() // must be a safe no-op

	select {
	case <-ticker.C():
		t.Fatal("disabled ticker must never tick")
	case <-time.After(50 * time.Millisecond):
	}
	ticker.Cancel() // idempotent, must not panic
}

func TestTickerFiresAfterPeriodOfNoReset(t *testing.T) {
	// NewTicker doesn't arm the timer until the first Reset, matching the Outbound Pipeline
	// resetting it on every send including the initial CONNECT.
	ticker := &Ticker{period: 10 * time.Millisecond, tickC: make(chan struct{}, 1)}
	ticker.timer = time.AfterFunc(ticker.period, ticker.fire)

	select {
	case <-ticker.C():
	case <-time.After(time.Second):
		t.Fatal("ticker never fired")
	}
	ticker.Cancel()
}

func TestTickerResetDoesNotEmitTick(t *testing.T) {
	ticker := NewTicker(1) // 1 second period, long enough to not fire spuriously
	ticker.Reset()

	select {
	case <-ticker.C():
		t.Fatal("ticker must not have fired yet")
	case <-time.After(20 * time.Millisecond):
	}
	ticker.Cancel()
}

func TestTickerCancelStopsFurtherFires(t *testing.T) {
	ticker := &Ticker{period: 10 * time.Millisecond, tickC: make(chan struct{}, 1)}
	ticker.timer = time.AfterFunc(ticker.period, ticker.fire)
	ticker.Cancel()

	select {
	case <-ticker.C():
		t.Fatal("cancelled ticker must not fire")
	case <-time.After(50 * time.Millisecond):
	}
	testutils.CheckTrue(ticker.stopped, t)
}
