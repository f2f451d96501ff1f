package mqtt

// PacketType is the 4 MSB of the first byte of an MQTT fixed header.
type PacketType byte

// Reserved is all zero bits - used for the unused low nibble of some fixed headers.
const Reserved = 0

const (
	// CONTROL MESSAGE TYPES
	// ---------------------

	_ PacketType = iota // 0 is reserved/forbidden

	// ConnectType control message type
	ConnectType PacketType = iota

	// ConnAckType control message type
	ConnAckType

	// PublishType control message type
	PublishType

	// PublishAckType (PUBACK) control message type
	PublishAckType

	// PublishReceivedType (PUBREC) control message type
	PublishReceivedType

	// PublishReleaseType (PUBREL) control message type
	PublishReleaseType

	// PublishCompleteType (PUBCOMP) control message type
	PublishCompleteType

	// SubscribeType control message type
	SubscribeType

	// SubAckType control message type
	SubAckType

	// UnsubscribeType control message type
	UnsubscribeType

	// UnsubAckType control message type
	UnsubAckType

	// PingReqType control message type
	PingReqType

	// PingRespType control message type
	PingRespType

	// DisconnectType control message type
	DisconnectType
)

const (
	// PublishReleaseReserved is the fixed (required) low nibble of a PUBREL fixed header: QoS1, no DUP/RETAIN.
	PublishReleaseReserved = 1 << 1

	// SubscribeReserved is the fixed (required) low nibble of a SUBSCRIBE fixed header.
	SubscribeReserved = 1 << 1

	// UnsubscribeReserved is the fixed (required) low nibble of an UNSUBSCRIBE fixed header.
	UnsubscribeReserved = 1 << 1
)

const (
	// CONNECTION PORTS
	// ----------------

	// UnencryptedPortTCP is the standard MQTT port over TCP for unencrypted content
	UnencryptedPortTCP = "1883"

	// EncryptedPortTCP is the standard MQTT port over TLS
	EncryptedPortTCP = "8883"
)

// Connect bits
const (
	// UserNameFlag is a bit that signals that UserName is in the payload
	UserNameFlag = 1 << 7

	// PasswordFlag is a bit that signals that Password is in the payload
	PasswordFlag = 1 << 6

	// WillRetainFlag is a bit that signals that Will Retention is in the payload
	WillRetainFlag = 1 << 5

	// WillQoSZero sets the Will QoS to 0 (since this is 0 it isn't really needed)
	WillQoSZero = 0

	// WillQoSOne sets the Will QoS to 1 (the Will QoS field is bits 3-4; this sets bit 3)
	WillQoSOne = 1 << 3

	// WillQoSTwo sets the Will QoS to 2 (the Will QoS field is bits 3-4; this sets bit 4)
	WillQoSTwo = 2 << 3

	// WillFlag is a bit that signals that Will is in the payload
	WillFlag = 1 << 2

	// CleanSessionFlag is a bit that signals that a clean session is wanted
	CleanSessionFlag = 1 << 1
)

// Connack results
const (
	// ConnectionAccepted means it is ok to use connection
	ConnectionAccepted = 0

	// ConnectionRefusedRejectedVersion Protocol version is not accepted
	ConnectionRefusedRejectedVersion = 1

	// ConnectionRefusedRejectedIdentifier Client Identifier is not accepted
	ConnectionRefusedRejectedIdentifier = 2

	// ConnectionRefusedServerUnavailable server is not available
	ConnectionRefusedServerUnavailable = 3

	// ConnectionRefusedBadUserPassword User name or Password is bad
	ConnectionRefusedBadUserPassword = 4

	// ConnectionRefusedNotAuthorized the presented credentials resulted in not being authorized
	ConnectionRefusedNotAuthorized = 5
)

// Publish Bits
const (
	// QoSZero sets the QoS to 0 (since this is 0 it isn't really needed)
	QoSZero = 0

	// QoSOne sets the QoS to 1 (bit 1 is set)
	QoSOne = 1 << 1

	// QoSTwo sets the QoS to 2 (bit 2 is set)
	QoSTwo = 2 << 1

	// NoDupBit sets the DUP bit to 0 (since it is 0 it isn't really needed)
	NoDupBit = 0

	// DupBit sets the DUP bit to 1
	DupBit = 1 << 3

	// NoRetainBit sets the RETAIN bit to 0 (since it is 0 it isn't really needed)
	NoRetainBit = 0

	// RetainBit sets the RETAIN bit to 1
	RetainBit = 1
)

// ConnectReturnCodeName returns a human readable reason for a CONNACK return code, per MQTT 3.1.1 section 3.2.2.3.
func ConnectReturnCodeName(code byte) string {
	switch code {
	case ConnectionAccepted:
		return "Accepted"
	case ConnectionRefusedRejectedVersion:
		return "UnacceptableProtocolVersion"
	case ConnectionRefusedRejectedIdentifier:
		return "IdentifierRejected"
	case ConnectionRefusedServerUnavailable:
		return "ServerUnavailable"
	case ConnectionRefusedBadUserPassword:
		return "BadUserNameOrPassword"
	case ConnectionRefusedNotAuthorized:
		return "NotAuthorized"
	default:
		return "Unknown"
	}
}
