package mqtt

import "io"

// DisconnectFrame is the DISCONNECT control packet: no variable header, no payload.
type DisconnectFrame struct{}

// Type implements Frame.
func (DisconnectFrame) Type() PacketType { return DisconnectType }

// WriteTo implements Frame.
func (DisconnectFrame) WriteTo(w io.Writer) (int64, error) {
	return writeFixedHeader(w, byte(DisconnectType)<<4, nil)
}
