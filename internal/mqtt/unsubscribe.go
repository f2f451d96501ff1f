package mqtt

import (
	"bytes"
	"fmt"
	"io"
)

// UnsubscribeFrame is the UNSUBSCRIBE control packet.
type UnsubscribeFrame struct {
	PacketID uint16
	Filters  []string
}

// Type implements Frame.
func (f *UnsubscribeFrame) Type() PacketType { return UnsubscribeType }

// WriteTo implements Frame.
func (f *UnsubscribeFrame) WriteTo(w io.Writer) (int64, error) {
	var body bytes.Buffer
	Encode16BitIntTo(int(f.PacketID), &body)
	for _, filter := range f.Filters {
		EncodeStringTo(filter, &body)
	}
	return writeFixedHeader(w, byte(UnsubscribeType)<<4|UnsubscribeReserved, body.Bytes())
}

func decodeUnsubscribe(body []byte) (*UnsubscribeFrame, error) {
	r := bytes.NewReader(body)
	id, err := Decode16BitInt(r)
	if err != nil {
		return nil, fmt.Errorf("mqtt: UNSUBSCRIBE packet id: %w", err)
	}
	f := &UnsubscribeFrame{PacketID: uint16(id)}
	for r.Len() > 0 {
		filter, err := DecodeString(r)
		if err != nil {
			return nil, fmt.Errorf("mqtt: UNSUBSCRIBE filter: %w", err)
		}
		f.Filters = append(f.Filters, filter)
	}
	return f, nil
}
