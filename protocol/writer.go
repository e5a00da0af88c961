package protocol

import (
	"fmt"
	"io"
)

// Encode builds a complete frame for a message of type t carrying payload.
// The payload is copied; the returned buffer never aliases it.
func Encode(t MessageType, payload []byte) ([]byte, error) {
	if err := checkEncodable(t, len(payload)); err != nil {
		return nil, err
	}

	b := make([]byte, HeaderLength+len(payload))
	putHeader(b, t, len(payload))
	copy(b[HeaderLength:], payload)

	return b, nil
}

// WriteMessage writes m to w as a single write of header and payload.
func WriteMessage(w io.Writer, m *Message) error {
	_, err := w.Write(m.Bytes())
	return err
}

func checkEncodable(t MessageType, length int) error {
	if !t.Valid() {
		return fmt.Errorf("Failed to encode message type 0x%02x: %w", byte(t), ErrInvalidType)
	}

	if length > MaxLength {
		return fmt.Errorf("Failed to encode %d byte %s payload: %w", length, t, ErrPayloadTooLarge)
	}

	return nil
}

func putHeader(b []byte, t MessageType, length int) {
	copy(b[:syncLength], SyncCode)
	b[syncLength] = byte(t)

	// 5 digits, zero padded
	for i := HeaderLength - 1; i > syncLength; i-- {
		b[i] = byte('0' + length%10)
		length /= 10
	}
}
