package engine

import (
	"errors"
	"io"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/mezquit/mezquit/internal/mqtt"
)

// InboundPipeline consumes decoded frames from the transport and dispatches them per the
// table in spec.md §4.4, driving both QoS handshakes to completion and delivering application
// Messages in broker-sent order.
type InboundPipeline struct {
	transport Transport
	outbound  *OutboundPipeline

	inFlightOut *IdentifierTable[mqtt.Frame]
	pending     *IdentifierTable[*oneShot[Result]]
	qos2        *InboundQoS2Set

	messages chan Message
	connack  *oneShot[connackResult]

	connackSeen int32 // atomic bool

	onStop func(error)
}

type connackResult struct {
	code byte
	err  error
}

// NewInboundPipeline wires the pipeline to the tables it shares with the Outbound Pipeline and
// the Session Controller.
func NewInboundPipeline(
	transport Transport,
	outbound *OutboundPipeline,
	inFlightOut *IdentifierTable[mqtt.Frame],
	pending *IdentifierTable[*oneShot[Result]],
	qos2 *InboundQoS2Set,
	messages chan Message,
	connack *oneShot[connackResult],
	onStop func(error),
) *InboundPipeline {
	return &InboundPipeline{
		transport:   transport,
		outbound:    outbound,
		inFlightOut: inFlightOut,
		pending:     pending,
		qos2:        qos2,
		messages:    messages,
		connack:     connack,
		onStop:      onStop,
	}
}

// Run reads frames until the transport ends or a fatal protocol/transport error occurs,
// setting the stop signal (via onStop) exactly once on the way out, per spec.md §4.4's
// "On end-of-stream ... terminates" and §7's error propagation rules.
func (p *InboundPipeline) Run() {
	defer close(p.messages)

	for {
		frame, err := p.transport.ReceiveFrame()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug("engine: inbound pipeline: end of stream")
				p.onStop(nil)
			} else {
				p.onStop(&TransportError{Err: err})
			}
			return
		}

		if err := p.dispatch(frame); err != nil {
			log.WithError(err).Warn("engine: inbound pipeline: fatal dispatch error")
			p.onStop(err)
			return
		}
	}
}

func (p *InboundPipeline) dispatch(frame mqtt.Frame) error {
	switch f := frame.(type) {
	case *mqtt.ConnAckFrame:
		return p.handleConnAck(f)
	case *mqtt.PublishFrame:
		return p.handlePublish(f)
	case *mqtt.PubAckFrame:
		return p.handlePubAck(f)
	case *mqtt.PubRecFrame:
		return p.handlePubRec(f)
	case *mqtt.PubRelFrame:
		return p.handlePubRel(f)
	case *mqtt.PubCompFrame:
		return p.handlePubComp(f)
	case *mqtt.SubAckFrame:
		return p.handleSubAck(f)
	case *mqtt.UnsubAckFrame:
		return p.handleUnsubAck(f)
	case mqtt.PingRespFrame:
		log.Debug("engine: PINGRESP received")
		// TODO: track the outstanding PINGREQ and close the transport if PINGRESP never
		// arrives within keepAlive - left unimplemented, matching spec.md §9's source quirk.
		return nil
	default:
		return NewProtocolError("unexpected inbound frame type %T", frame)
	}
}

func (p *InboundPipeline) handleConnAck(f *mqtt.ConnAckFrame) error {
	if !atomic.CompareAndSwapInt32(&p.connackSeen, 0, 1) {
		return NewProtocolError("received a second CONNACK")
	}
	p.connack.Complete(connackResult{code: f.ReturnCode})
	return nil
}

func (p *InboundPipeline) handlePublish(f *mqtt.PublishFrame) error {
	id := PacketId(f.PacketID)
	switch {
	case f.QoS == 0 && f.PacketID == 0:
		p.deliver(f)
	case f.QoS == 1 && f.PacketID != 0:
		p.deliver(f)
		p.outbound.Enqueue(mqtt.NewPubAckFrame(f.PacketID))
	case f.QoS == 2 && f.PacketID != 0:
		if p.qos2.CheckAndAdd(id) {
			log.Debugf("engine: duplicate inbound QoS2 PUBLISH id=%d, suppressing redelivery", id)
		} else {
			p.deliver(f)
		}
		p.outbound.Enqueue(mqtt.NewPubRecFrame(f.PacketID))
	default:
		return NewProtocolError("PUBLISH with QoS %d and packet id %d is not a legal combination", f.QoS, f.PacketID)
	}
	return nil
}

func (p *InboundPipeline) deliver(f *mqtt.PublishFrame) {
	p.messages <- Message{Topic: f.Topic, Payload: f.Payload}
}

func (p *InboundPipeline) handlePubAck(f *mqtt.PubAckFrame) error {
	id := PacketId(f.PacketID)
	p.inFlightOut.Remove(id)
	p.outbound.ReleasePublishSlot()
	p.completePending(id, EmptyResult)
	return nil
}

func (p *InboundPipeline) handlePubRec(f *mqtt.PubRecFrame) error {
	id := PacketId(f.PacketID)
	rel := mqtt.NewPubRelFrame(f.PacketID)
	p.outbound.EnqueuePubRel(id, rel)
	// Pending result is deliberately left incomplete here (spec.md §4.4 / testable property 6).
	return nil
}

func (p *InboundPipeline) handlePubRel(f *mqtt.PubRelFrame) error {
	id := PacketId(f.PacketID)
	p.qos2.Remove(id)
	p.outbound.Enqueue(mqtt.NewPubCompFrame(f.PacketID))
	return nil
}

func (p *InboundPipeline) handlePubComp(f *mqtt.PubCompFrame) error {
	id := PacketId(f.PacketID)
	p.inFlightOut.Remove(id)
	p.outbound.ReleasePublishSlot()
	p.completePending(id, EmptyResult)
	return nil
}

func (p *InboundPipeline) handleSubAck(f *mqtt.SubAckFrame) error {
	p.completePending(PacketId(f.PacketID), QoSResult(f.GrantedQoS))
	return nil
}

func (p *InboundPipeline) handleUnsubAck(f *mqtt.UnsubAckFrame) error {
	p.completePending(PacketId(f.PacketID), EmptyResult)
	return nil
}

func (p *InboundPipeline) completePending(id PacketId, result Result) {
	slot, ok := p.pending.Remove(id)
	if !ok {
		return
	}
	slot.Complete(result)
}
