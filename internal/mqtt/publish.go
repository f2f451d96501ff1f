package mqtt

import (
	"bytes"
	"fmt"
	"io"
)

// PublishFrame is the PUBLISH control packet, carrying an application message.
type PublishFrame struct {
	Dup      bool
	QoS      int
	Retain   bool
	Topic    string
	PacketID uint16 // only meaningful when QoS > 0
	Payload  []byte
}

// Type implements Frame.
func (f *PublishFrame) Type() PacketType { return PublishType }

func (f *PublishFrame) fixedHeaderByte() byte {
	result := byte(PublishType) << 4
	switch f.QoS {
	case 1:
		result |= QoSOne
	case 2:
		result |= QoSTwo
	}
	if f.Retain {
		result |= RetainBit
	}
	if f.Dup {
		result |= DupBit
	}
	return result
}

// WriteTo implements Frame.
func (f *PublishFrame) WriteTo(w io.Writer) (int64, error) {
	var body bytes.Buffer
	EncodeStringTo(f.Topic, &body)
	if f.QoS > 0 {
		Encode16BitIntTo(int(f.PacketID), &body)
	}
	body.Write(f.Payload)
	return writeFixedHeader(w, f.fixedHeaderByte(), body.Bytes())
}

// WithDup returns a copy of the frame with the DUP bit set, for caller-initiated retransmission.
func (f *PublishFrame) WithDup() *PublishFrame {
	dup := *f
	dup.Dup = true
	return &dup
}

func decodePublish(flags byte, body []byte) (*PublishFrame, error) {
	r := bytes.NewReader(body)
	topic, err := DecodeString(r)
	if err != nil {
		return nil, fmt.Errorf("mqtt: PUBLISH topic: %w", err)
	}
	qos := int(flags>>1) & 0x3
	if qos == 3 {
		return nil, fmt.Errorf("mqtt: PUBLISH has invalid QoS 3")
	}
	f := &PublishFrame{
		Dup:    flags&DupBit != 0,
		QoS:    qos,
		Retain: flags&RetainBit != 0,
		Topic:  topic,
	}
	if qos > 0 {
		id, err := Decode16BitInt(r)
		if err != nil {
			return nil, fmt.Errorf("mqtt: PUBLISH packet id: %w", err)
		}
		f.PacketID = uint16(id)
	}
	payload := make([]byte, r.Len())
	r.Read(payload)
	f.Payload = payload
	return f, nil
}
