package engine

import "fmt"

// ProtocolError means the broker violated MQTT framing or sent a frame illegal for the
// client role (spec.md §7). It is fatal: the session tears down.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string { return fmt.Sprintf("mqtt protocol error: %s", e.Reason) }

// NewProtocolError builds a ProtocolError with a formatted reason.
func NewProtocolError(format string, args ...interface{}) *ProtocolError {
	return &ProtocolError{Reason: fmt.Sprintf(format, args...)}
}

// ConnectionFailure means the broker's CONNACK carried a non-zero return code (spec.md §7).
// It is fatal at construction time; Connect never returns a *Session alongside this error.
type ConnectionFailure struct {
	Code   byte
	Reason string
}

func (e *ConnectionFailure) Error() string {
	return fmt.Sprintf("mqtt connection refused: %s (code %d)", e.Reason, e.Code)
}

// TransportError wraps an underlying I/O failure from the Transport (spec.md §7).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("mqtt transport error: %s", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// CancelledError is delivered to every outstanding sendReceive waiter when Session.Cancel is
// invoked (spec.md §7). Callers can distinguish it from a successful Result via Result.Kind,
// but ErrCancelled is also returned as the error value from SendReceive for idiomatic Go
// callers that check errors rather than pattern-match on a Result tag.
var ErrCancelled = &CancelledError{}

// CancelledError is the error type backing ErrCancelled.
type CancelledError struct{}

func (*CancelledError) Error() string { return "mqtt session cancelled" }
