package engine

import "github.com/mezquit/mezquit/internal/mqtt"

// Transport is the byte-transport contract the engine consumes (spec.md §6). It is deliberately
// narrow: connect/dial, TLS setup, reconnection policy and logging of transport-level events are
// the caller's responsibility, not the engine's. internal/mqtt.NetTransport is the net.Conn backed
// implementation used outside of tests; MockConnection-backed transports are used in tests.
type Transport interface {
	// SendFrame serializes and writes a single frame to the outbound byte stream.
	SendFrame(f mqtt.Frame) error
	// ReceiveFrame blocks for and decodes the next frame from the inbound byte stream.
	// Returns io.EOF when the stream has been cleanly closed by the peer.
	ReceiveFrame() (mqtt.Frame, error)
	// StatusC is a source of connectivity events (connected/disconnected).
	StatusC() <-chan bool
	// Close closes the underlying connection. Session.Cancel calls it to unblock ReceiveFrame.
	Close() error
}
