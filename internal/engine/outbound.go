package engine

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/mezquit/mezquit/internal/mqtt"
)

// DefaultMaxInFlightPublishes bounds the number of concurrently in-flight outbound QoS>=1
// PUBLISH exchanges, the way paho's Client.clientInflight semaphore does (see DESIGN.md).
// MQTT 3.1.1 itself has no such limit; this is a SPEC_FULL addition to keep an unbounded
// caller from growing the in-flight outbound table without bound.
const DefaultMaxInFlightPublishes = 64

// OutboundPipeline consumes frames from the bounded frame queue and writes them to the
// transport, in order, performing the bookkeeping spec.md §4.3 describes.
type OutboundPipeline struct {
	transport Transport
	frameQ    chan mqtt.Frame
	inFlight  *IdentifierTable[mqtt.Frame]
	ticker    *Ticker
	sem       *semaphore.Weighted
	heldMu    sync.Mutex
	held      int64 // publish slots acquired and not yet released

	wg      sync.WaitGroup
	onFatal func(error)

	quit     chan struct{}
	quitOnce sync.Once
}

// NewOutboundPipeline constructs the pipeline. frameQ is the bounded queue producers enqueue
// onto (size Q, default 128, see NewFrameQueue); inFlight is shared by reference with the
// Inbound Pipeline.
func NewOutboundPipeline(transport Transport, frameQ chan mqtt.Frame, inFlight *IdentifierTable[mqtt.Frame], ticker *Ticker, onFatal func(error)) *OutboundPipeline {
	return &OutboundPipeline{
		transport: transport,
		frameQ:    frameQ,
		inFlight:  inFlight,
		ticker:    ticker,
		sem:       semaphore.NewWeighted(DefaultMaxInFlightPublishes),
		onFatal:   onFatal,
		quit:      make(chan struct{}),
	}
}

// NewFrameQueue builds the bounded frame queue described in spec.md §4.3 ("Backpressure").
func NewFrameQueue(capacity int) chan mqtt.Frame {
	if capacity <= 0 {
		capacity = 128
	}
	return make(chan mqtt.Frame, capacity)
}

// AcquirePublishSlot blocks until fewer than DefaultMaxInFlightPublishes outbound QoS>=1
// publishes are in flight, or ctx is cancelled. QoS 0 publishes never call this.
func (p *OutboundPipeline) AcquirePublishSlot(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	p.heldMu.Lock()
	p.held++
	p.heldMu.Unlock()
	return nil
}

// ReleasePublishSlot frees one in-flight publish slot. Called by the Inbound Pipeline when a
// QoS>=1 exchange completes (PUBACK or PUBCOMP). When no slot is held (an ack for a publish
// that never acquired one), the call does nothing.
func (p *OutboundPipeline) ReleasePublishSlot() {
	p.heldMu.Lock()
	defer p.heldMu.Unlock()
	if p.held == 0 {
		return
	}
	p.held--
	p.sem.Release(1)
}

// Run drains the frame queue until Stop is called or the transport fails, performing the
// record/send/reset-ticker sequence for every frame. It is started as a detached goroutine by
// the Session Controller.
func (p *OutboundPipeline) Run() {
	p.wg.Add(1)
	defer p.wg.Done()

	for {
		select {
		case <-p.quit:
			return
		case frame := <-p.frameQ:
			if pub, ok := frame.(*mqtt.PublishFrame); ok && pub.QoS > 0 {
				p.inFlight.Insert(PacketId(pub.PacketID), frame)
			}

			if err := p.transport.SendFrame(frame); err != nil {
				log.WithError(err).Warn("engine: outbound pipeline: transport write failed")
				p.onFatal(&TransportError{Err: err})
				return
			}

			p.ticker.Reset()
		}
	}
}

// Stop signals Run to return without draining the remainder of the frame queue. Idempotent.
func (p *OutboundPipeline) Stop() {
	p.quitOnce.Do(func() {
		close(p.quit)
	})
}

// EnqueuePubRel is how the Inbound Pipeline records and sends the PUBREL a PUBREC converts an
// outbound PUBLISH into (spec.md §4.4): the in-flight table entry is replaced here, at
// generation time, rather than by the Outbound Pipeline's generic per-frame bookkeeping.
func (p *OutboundPipeline) EnqueuePubRel(id PacketId, rel *mqtt.PubRelFrame) {
	p.inFlight.Update(id, rel)
	p.Enqueue(rel)
}

// Enqueue pushes a frame onto the queue, reporting false instead of panicking if the queue has
// been closed. Session shutdown stops Run through Stop and never closes the queue, so within
// this package Enqueue always reports true; it blocks while the queue is full.
func (p *OutboundPipeline) Enqueue(f mqtt.Frame) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	p.frameQ <- f
	return true
}

// Wait blocks until Run has returned.
func (p *OutboundPipeline) Wait() {
	p.wg.Wait()
}
