package mqtt

import (
	"bytes"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid"
)

// ConnectOptions are the immutable parameters of a MQTT CONNECT, matching spec.md's SessionConfig.
type ConnectOptions struct {
	Level            byte // 4 is MQTT 3.1.1
	CleanSession     bool
	KeepAliveSeconds int
	ClientName       string
	WillTopic        string
	WillMessage      []byte
	WillQoS          int
	WillRetain       bool
	UserName         string
	Password         *[]byte
}

// DefaultConnectOptions returns MQTT 3.1.1, clean session, 10 second keep alive, no client name.
func DefaultConnectOptions() ConnectOptions {
	return ConnectOptions{Level: 4, CleanSession: true, KeepAliveSeconds: 10}
}

// ConnectOption is an options-modifying function.
type ConnectOption func(*ConnectOptions) error

// NewConnectOptions builds a ConnectOptions from the defaults overridden by the given options.
func NewConnectOptions(options ...ConnectOption) (ConnectOptions, error) {
	opts := DefaultConnectOptions()
	for _, fOpt := range options {
		if err := fOpt(&opts); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// Level returns a ConnectOption for the protocol level.
func Level(level int) ConnectOption {
	return func(o *ConnectOptions) error {
		if level != 0 && level != 4 && level != 5 {
			return fmt.Errorf("mqtt: Level must be 0 (use default), 4 (3.1.1) or 5, got %d", level)
		}
		if level != 0 {
			o.Level = byte(level)
		}
		return nil
	}
}

// CleanSession returns a ConnectOption for the clean-session flag.
func CleanSession(flag bool) ConnectOption {
	return func(o *ConnectOptions) error { o.CleanSession = flag; return nil }
}

// KeepAliveSeconds returns a ConnectOption for the keep-alive interval. 0 disables the ticker.
func KeepAliveSeconds(value int) ConnectOption {
	return func(o *ConnectOptions) error {
		if value < 0 || value > 0xFFFF {
			return fmt.Errorf("mqtt: KeepAliveSeconds must be in 0..0xFFFF, got %d", value)
		}
		o.KeepAliveSeconds = value
		return nil
	}
}

// ClientName returns a ConnectOption for the MQTT client identifier.
func ClientName(value string) ConnectOption {
	return func(o *ConnectOptions) error { o.ClientName = value; return nil }
}

// WillTopic returns a ConnectOption for the will topic.
func WillTopic(value string) ConnectOption {
	return func(o *ConnectOptions) error { o.WillTopic = value; return nil }
}

// WillMessage returns a ConnectOption for the will payload.
func WillMessage(value []byte) ConnectOption {
	return func(o *ConnectOptions) error { o.WillMessage = value; return nil }
}

// WillQoS returns a ConnectOption for the will QoS.
func WillQoS(value int) ConnectOption {
	return func(o *ConnectOptions) error {
		if value < 0 || value > 2 {
			return fmt.Errorf("mqtt: WillQoS must be 0, 1, or 2, got %d", value)
		}
		o.WillQoS = value
		return nil
	}
}

// WillRetain returns a ConnectOption for the will retain flag.
func WillRetain(value bool) ConnectOption {
	return func(o *ConnectOptions) error { o.WillRetain = value; return nil }
}

// UserName returns a ConnectOption for the CONNECT user name field.
func UserName(value string) ConnectOption {
	return func(o *ConnectOptions) error { o.UserName = value; return nil }
}

// Password returns a ConnectOption for the CONNECT password field.
func Password(value []byte) ConnectOption {
	return func(o *ConnectOptions) error { o.Password = &value; return nil }
}

// RandomClientID returns a random short (base-57) client identifier.
func RandomClientID() string {
	return shortuuid.New()
}

// RandomClientIDv4 returns a random RFC-4122 v4 UUID client identifier, for brokers that
// expect a canonical UUID rather than a short ID.
func RandomClientIDv4() string {
	return uuid.New().String()
}

func (o *ConnectOptions) connectBits() byte {
	bits := byte(0)
	if o.CleanSession {
		bits |= CleanSessionFlag
	}
	if o.WillTopic != "" {
		bits |= WillFlag
		switch o.WillQoS {
		case 1:
			bits |= WillQoSOne
		case 2:
			bits |= WillQoSTwo
		}
		if o.WillRetain {
			bits |= WillRetainFlag
		}
	}
	if o.UserName != "" {
		bits |= UserNameFlag
	}
	if o.Password != nil {
		bits |= PasswordFlag
	}
	return bits
}

// ConnectFrame is the CONNECT control packet.
type ConnectFrame struct {
	Options ConnectOptions
}

// NewConnectFrame builds a CONNECT frame from the given options.
func NewConnectFrame(options ConnectOptions) *ConnectFrame {
	return &ConnectFrame{Options: options}
}

// Type implements Frame.
func (f *ConnectFrame) Type() PacketType { return ConnectType }

// WriteTo implements Frame.
func (f *ConnectFrame) WriteTo(w io.Writer) (int64, error) {
	o := &f.Options
	var body bytes.Buffer

	body.WriteByte(0)
	body.WriteByte(4)
	body.WriteString("MQTT")
	body.WriteByte(o.Level)
	body.WriteByte(o.connectBits())
	Encode16BitIntTo(o.KeepAliveSeconds, &body)

	EncodeStringTo(o.ClientName, &body)
	if o.WillTopic != "" {
		EncodeStringTo(o.WillTopic, &body)
		EncodeBytesTo(o.WillMessage, &body)
	}
	if o.UserName != "" {
		EncodeStringTo(o.UserName, &body)
	}
	if o.Password != nil {
		EncodeBytesTo(*o.Password, &body)
	}

	return writeFixedHeader(w, byte(ConnectType)<<4|Reserved, body.Bytes())
}
