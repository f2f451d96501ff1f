package mqtt

import (
	"bytes"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// EncodeVariableInt produces a []byte with the integer encoded as an MQTT variable length integer.
func EncodeVariableInt(value int) []byte {
	var data bytes.Buffer

	for {
		encodedByte := byte(value % 128)
		value = value / 128
		// if there is more data to encode, set the top bit of this byte
		if value > 0 {
			encodedByte |= 128
		}
		data.WriteByte(encodedByte)
		if value == 0 {
			break
		}
	}
	return data.Bytes()
}

// EncodeVariableIntTo encodes a given int into the given buffer using the MQTT variable length
// integer encoding and returns the number of bytes written.
func EncodeVariableIntTo(value int, to *bytes.Buffer) int {
	encoded := EncodeVariableInt(value)
	to.Write(encoded)

	if log.IsLevelEnabled(log.TraceLevel) {
		log.Tracef("encoded remaining length %d into %d byte(s): % x", value, len(encoded), encoded)
	}
	return len(encoded)
}

// DecodeVariableInt decodes a variable length integer from the reader, consuming it, and returns the value.
func DecodeVariableInt(reader io.Reader) (int, error) {
	multiplier := 1
	value := 0
	buf := make([]byte, 1)
	for {
		if _, err := io.ReadFull(reader, buf); err != nil {
			return 0, err
		}
		encodedByte := buf[0]
		value += int(encodedByte&127) * multiplier

		if multiplier > 128*128*128 {
			return 0, fmt.Errorf("mqtt: malformed remaining length: value exceeds 4 bytes")
		}
		multiplier *= 128
		if encodedByte&128 == 0 {
			break
		}
	}
	return value, nil
}
