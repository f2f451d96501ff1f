package engine

import (
	"context"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/mezquit/mezquit/internal/mqtt"
)

// Will describes an MQTT last-will-and-testament, published by the broker if the client
// disconnects uncleanly.
type Will struct {
	Topic   string
	Payload []byte
	QoS     int
	Retain  bool
}

// SessionConfig is the immutable set of parameters establishing a Session (spec.md §3).
type SessionConfig struct {
	ClientID         string
	KeepAliveSeconds int
	CleanSession     bool
	Will             *Will
	UserName         string
	Password         []byte

	// FrameQueueSize overrides the default bounded frame queue capacity (spec.md §4.3, default 128).
	FrameQueueSize int
}

func (c SessionConfig) connectOptions() (mqtt.ConnectOptions, error) {
	opts := []mqtt.ConnectOption{
		mqtt.ClientName(c.ClientID),
		mqtt.CleanSession(c.CleanSession),
		mqtt.KeepAliveSeconds(c.KeepAliveSeconds),
	}
	if c.Will != nil {
		opts = append(opts,
			mqtt.WillTopic(c.Will.Topic),
			mqtt.WillMessage(c.Will.Payload),
			mqtt.WillQoS(c.Will.QoS),
			mqtt.WillRetain(c.Will.Retain),
		)
	}
	if c.UserName != "" {
		opts = append(opts, mqtt.UserName(c.UserName))
	}
	if c.Password != nil {
		opts = append(opts, mqtt.Password(c.Password))
	}
	return mqtt.NewConnectOptions(opts...)
}

// Session is the caller-facing handle produced once a CONNECT/CONNACK exchange succeeds
// (spec.md §4.5). It owns the two pipelines, the ticker, and the identifier tables.
type Session struct {
	id uuid.UUID

	transport Transport
	frameQ    chan mqtt.Frame
	messages  chan Message

	inFlightOut *IdentifierTable[mqtt.Frame]
	pending     *IdentifierTable[*oneShot[Result]]
	qos2        *InboundQoS2Set

	ticker   *Ticker
	outbound *OutboundPipeline
	inbound  *InboundPipeline

	stopped    chan struct{}
	stopOnce   sync.Once
	stopErr    error
	stopErrMu  sync.Mutex

	cancelOnce sync.Once
}

// Connect performs the construction sequence of spec.md §4.5: it starts both pipelines,
// sends CONNECT, and suspends until CONNACK arrives. On a non-zero return code, the started
// tasks are cancelled and a *ConnectionFailure is returned; no Session is returned in that case.
func Connect(config SessionConfig, transport Transport) (*Session, error) {
	connectOpts, err := config.connectOptions()
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:          uuid.New(),
		transport:   transport,
		frameQ:      NewFrameQueue(config.FrameQueueSize),
		messages:    make(chan Message, 128),
		inFlightOut: NewIdentifierTable[mqtt.Frame](),
		pending:     NewIdentifierTable[*oneShot[Result]](),
		qos2:        NewInboundQoS2Set(),
		ticker:      NewTicker(config.KeepAliveSeconds),
		stopped:     make(chan struct{}),
	}
	logger := s.logger()

	s.outbound = NewOutboundPipeline(transport, s.frameQ, s.inFlightOut, s.ticker, s.handleStop)
	go s.outbound.Run()

	connack := newOneShot[connackResult]()
	s.inbound = NewInboundPipeline(transport, s.outbound, s.inFlightOut, s.pending, s.qos2, s.messages, connack, s.handleStop)
	go s.inbound.Run()

	go s.runKeepAlive()

	logger.Debugf("Broker <- CONNECT(%s)", config.ClientID)
	s.frameQ <- mqtt.NewConnectFrame(connectOpts)

	result := connack.Await()
	if result.code != mqtt.ConnectionAccepted {
		logger.Warnf("Broker -> CONNACK refused: %s (code %d)", mqtt.ConnectReturnCodeName(result.code), result.code)
		s.Cancel()
		return nil, &ConnectionFailure{Code: result.code, Reason: mqtt.ConnectReturnCodeName(result.code)}
	}
	logger.Debug("Broker -> CONNACK accepted")
	return s, nil
}

func (s *Session) logger() *log.Entry {
	return log.WithField("session", s.id.String())
}

// Send enqueues a frame and returns once the enqueue completes. There is no correlation and
// no waiting for a response; a caller using QoS>=1 PUBLISH is responsible for its own packet
// identifier (spec.md §4.5).
func (s *Session) Send(frame mqtt.Frame) error {
	if pub, ok := frame.(*mqtt.PublishFrame); ok && pub.QoS > 0 {
		if err := s.outbound.AcquirePublishSlot(context.Background()); err != nil {
			return err
		}
	}
	select {
	case s.frameQ <- frame:
		return nil
	case <-s.stopped:
		return ErrCancelled
	}
}

// SendReceive allocates a one-shot pending-result slot under id (replacing any prior
// registration under the same id, a caller bug per spec.md §4.5), enqueues frame, and
// suspends until the slot is completed by the Inbound Pipeline or by Cancel.
func (s *Session) SendReceive(frame mqtt.Frame, id PacketId) (Result, error) {
	slot := newOneShot[Result]()
	s.pending.Insert(id, slot)

	if pub, ok := frame.(*mqtt.PublishFrame); ok && pub.QoS > 0 {
		if err := s.outbound.AcquirePublishSlot(context.Background()); err != nil {
			return Result{}, err
		}
	}

	select {
	case s.frameQ <- frame:
	case <-s.stopped:
		return CancelledResult, ErrCancelled
	}

	result := slot.Await()
	if result.Kind == ResultCancelled {
		return result, ErrCancelled
	}
	return result, nil
}

// Messages returns the channel of delivered application Messages, in broker-order. The
// channel is closed when the stop signal is set (the Inbound Pipeline ended).
func (s *Session) Messages() <-chan Message {
	return s.messages
}

// Cancel cancels the ticker, then the outbound and inbound tasks, in that order, and
// completes every outstanding pending result with Cancelled so waiters never deadlock
// (spec.md §4.5, §9). It does not flush the frame queue, and it is idempotent.
func (s *Session) Cancel() {
	s.cancelOnce.Do(func() {
		s.logger().Debug("Session: cancel()")
		s.ticker.Cancel()
		s.outbound.Stop()
		s.setStopped(nil)
		if err := s.transport.Close(); err != nil {
			s.logger().WithError(err).Debug("Session: transport close during cancel")
		}
		s.pending.RemoveAll(func(_ PacketId, slot *oneShot[Result]) {
			slot.Complete(CancelledResult)
		})
	})
}

// handleStop is invoked by either pipeline on a fatal or end-of-stream condition; it sets the
// stop signal at most once, recording the first error (spec.md §7: outbound and inbound
// pipeline failures both terminate the session by setting the stop signal).
func (s *Session) handleStop(err error) {
	if err != nil {
		s.logger().WithError(err).Warn("Session: pipeline stopped with error")
	}
	s.ticker.Cancel()
	s.outbound.Stop()
	s.setStopped(err)
	s.pending.RemoveAll(func(_ PacketId, slot *oneShot[Result]) {
		slot.Complete(CancelledResult)
	})
}

func (s *Session) setStopped(err error) {
	s.stopOnce.Do(func() {
		s.stopErrMu.Lock()
		s.stopErr = err
		s.stopErrMu.Unlock()
		close(s.stopped)
	})
}

// runKeepAlive turns ticks from the Ticker into PINGREQ frames, per spec.md §4.2: a tick fires
// only after a full keep-alive interval of outbound silence, since the Outbound Pipeline resets
// the timer on every send.
func (s *Session) runKeepAlive() {
	for {
		select {
		case <-s.ticker.C():
			s.outbound.Enqueue(mqtt.PingReqFrame{})
		case <-s.stopped:
			return
		}
	}
}

// Err returns the error that caused the session to stop, if any (nil for a clean end-of-stream
// or an explicit Cancel()).
func (s *Session) Err() error {
	s.stopErrMu.Lock()
	defer s.stopErrMu.Unlock()
	return s.stopErr
}

// Done returns a channel closed once the session has stopped, for callers that want to select
// on session liveness alongside their own work.
func (s *Session) Done() <-chan struct{} {
	return s.stopped
}
