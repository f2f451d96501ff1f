package mqtt

import (
	"net"
	"sync"

	log "github.com/sirupsen/logrus"
)

// NetTransport is a net.Conn backed implementation of the engine's Transport contract
// (see internal/engine/transport.go). It is the "out of scope" collaborator spec.md §6
// describes: a reliable byte stream connect/read/write/close, with no protocol awareness
// beyond framing, which is delegated entirely to DecodeFrame and Frame.WriteTo.
type NetTransport struct {
	conn net.Conn

	writeMu sync.Mutex

	statusOnce sync.Once
	status     chan bool
}

// DialTCP opens a plain TCP connection to an MQTT broker at addr (host:port).
func DialTCP(addr string) (*NetTransport, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewNetTransport(conn), nil
}

// NewNetTransport wraps an already-established connection (TCP, TLS, or a test pipe).
func NewNetTransport(conn net.Conn) *NetTransport {
	t := &NetTransport{conn: conn, status: make(chan bool, 1)}
	t.status <- true
	return t
}

// SendFrame serializes and writes a single frame to the connection.
func (t *NetTransport) SendFrame(f Frame) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	_, err := f.WriteTo(t.conn)
	if err != nil {
		log.WithError(err).Warn("mqtt: transport write failed")
		t.markDown()
	}
	return err
}

// ReceiveFrame blocks for and decodes the next frame from the connection.
func (t *NetTransport) ReceiveFrame() (Frame, error) {
	f, err := DecodeFrame(t.conn)
	if err != nil {
		t.markDown()
	}
	return f, err
}

// StatusC returns a channel of connectivity events; true is pushed once at construction.
func (t *NetTransport) StatusC() <-chan bool {
	return t.status
}

func (t *NetTransport) markDown() {
	t.statusOnce.Do(func() {
		select {
		case t.status <- false:
		default:
		}
	})
}

// Close closes the underlying connection. Session.Cancel calls it; a second call is harmless
// for the caller that opened the transport.
func (t *NetTransport) Close() error {
	return t.conn.Close()
}
