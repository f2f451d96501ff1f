package mqtt

import "io"

// PingReqFrame is the PINGREQ control packet: no variable header, no payload.
type PingReqFrame struct{}

// Type implements Frame.
func (PingReqFrame) Type() PacketType { return PingReqType }

// WriteTo implements Frame.
func (PingReqFrame) WriteTo(w io.Writer) (int64, error) {
	return writeFixedHeader(w, byte(PingReqType)<<4, nil)
}

// PingRespFrame is the PINGRESP control packet: no variable header, no payload.
type PingRespFrame struct{}

// Type implements Frame.
func (PingRespFrame) Type() PacketType { return PingRespType }

// WriteTo implements Frame.
func (PingRespFrame) WriteTo(w io.Writer) (int64, error) {
	return writeFixedHeader(w, byte(PingRespType)<<4, nil)
}
