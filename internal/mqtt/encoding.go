package mqtt

import (
	"bytes"
	"fmt"
	"io"
)

// EncodeStringTo encodes a given string into the given buffer - 16 bit length prefix + the content.
func EncodeStringTo(value string, to *bytes.Buffer) {
	Encode16BitIntTo(len(value), to)
	to.WriteString(value)
}

// EncodeBytesTo encodes a given []byte into the given buffer - 16 bit length prefix + the content.
func EncodeBytesTo(value []byte, to *bytes.Buffer) {
	Encode16BitIntTo(len(value), to)
	to.Write(value)
}

// Encode16BitIntTo encodes a given int as a 16 bit big endian value into the buffer.
func Encode16BitIntTo(value int, to *bytes.Buffer) {
	to.WriteByte(byte(value >> 8))
	to.WriteByte(byte(value & 0xFF))
}

// Decode16BitInt decodes a 16 bit big endian value from the reader.
func Decode16BitInt(reader io.Reader) (int, error) {
	buf := make([]byte, 2)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return 0, err
	}
	return int(buf[0])<<8 | int(buf[1]), nil
}

// DecodeString decodes a 16 bit length prefixed UTF-8 string from the reader.
func DecodeString(reader io.Reader) (string, error) {
	n, err := Decode16BitInt(reader)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return "", fmt.Errorf("mqtt: short read of length prefixed string: %w", err)
	}
	return string(buf), nil
}

// DecodeBytes decodes a 16 bit length prefixed byte sequence from the reader.
func DecodeBytes(reader io.Reader) ([]byte, error) {
	n, err := Decode16BitInt(reader)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return nil, fmt.Errorf("mqtt: short read of length prefixed bytes: %w", err)
	}
	return buf, nil
}
