package mqtt

import (
	"fmt"
	"io"
)

// DecodeFrame reads one MQTT control packet from r: the fixed header, the variable-length
// remaining length, and then dispatches on the packet type nibble to decode the rest.
// It returns io.EOF (unwrapped, so callers can test with errors.Is) when r is at a clean
// packet boundary and the underlying stream has closed.
func DecodeFrame(r io.Reader) (Frame, error) {
	first := make([]byte, 1)
	if _, err := io.ReadFull(r, first); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, io.EOF
		}
		return nil, err
	}
	packetType := PacketType(first[0] >> 4)
	flags := first[0] & 0x0F

	remaining, err := DecodeVariableInt(r)
	if err != nil {
		return nil, fmt.Errorf("mqtt: remaining length: %w", err)
	}
	body := make([]byte, remaining)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("mqtt: short read of %v body (wanted %d bytes): %w", packetType, remaining, err)
	}

	switch packetType {
	case ConnAckType:
		return decodeConnAck(body)
	case PublishType:
		return decodePublish(flags, body)
	case PublishAckType:
		id, err := decodeIDFrame(packetType, body)
		if err != nil {
			return nil, err
		}
		return NewPubAckFrame(id), nil
	case PublishReceivedType:
		id, err := decodeIDFrame(packetType, body)
		if err != nil {
			return nil, err
		}
		return NewPubRecFrame(id), nil
	case PublishReleaseType:
		id, err := decodeIDFrame(packetType, body)
		if err != nil {
			return nil, err
		}
		return NewPubRelFrame(id), nil
	case PublishCompleteType:
		id, err := decodeIDFrame(packetType, body)
		if err != nil {
			return nil, err
		}
		return NewPubCompFrame(id), nil
	case SubscribeType:
		return decodeSubscribe(body)
	case SubAckType:
		return decodeSubAck(body)
	case UnsubscribeType:
		return decodeUnsubscribe(body)
	case UnsubAckType:
		id, err := decodeIDFrame(packetType, body)
		if err != nil {
			return nil, err
		}
		return NewUnsubAckFrame(id), nil
	case PingReqType:
		return PingReqFrame{}, nil
	case PingRespType:
		return PingRespFrame{}, nil
	case ConnectType:
		return nil, fmt.Errorf("mqtt: CONNECT decoding is not implemented by this client-side codec")
	case DisconnectType:
		return DisconnectFrame{}, nil
	default:
		return nil, fmt.Errorf("mqtt: unknown packet type %d", packetType)
	}
}
