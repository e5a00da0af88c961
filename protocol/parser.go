package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrProtocol is wrapped by every framing error that makes a frame
	// unusable.
	ErrProtocol = errors.New("LDDS protocol error")

	ErrHeaderTooShort = fmt.Errorf("%w: header is shorter than %d bytes", ErrProtocol, HeaderLength)
	ErrBadSync        = fmt.Errorf("%w: bad sync code", ErrProtocol)
	ErrBadType        = fmt.Errorf("%w: bad message type", ErrProtocol)
	ErrBadLength      = fmt.Errorf("%w: bad length field", ErrProtocol)

	// ErrInconsistentLength is returned by Decode when the bytes following the
	// header don't match the declared length. It doesn't wrap ErrProtocol as
	// the header itself was valid.
	ErrInconsistentLength = errors.New("Inconsistent LDDS message length")

	ErrInvalidType     = errors.New("Message type is not in the LDDS alphabet")
	ErrPayloadTooLarge = fmt.Errorf("Payload exceeds %d bytes", MaxLength)
)

// DecodeHeader validates the first HeaderLength bytes of b and returns the
// message type and declared payload length.
func DecodeHeader(b []byte) (MessageType, int, error) {
	if len(b) < HeaderLength {
		return 0, 0, fmt.Errorf("Invalid LDDS message, length=%d: %w", len(b), ErrHeaderTooShort)
	}

	header := b[:HeaderLength]

	if !bytes.Equal(header[:syncLength], SyncCode) {
		return 0, 0, fmt.Errorf("Invalid LDDS message header, sync=%q: %w", header[:syncLength], ErrBadSync)
	}

	t := MessageType(header[syncLength])
	if !t.Valid() {
		return 0, 0, fmt.Errorf("Invalid LDDS message header, type=%q: %w", byte(t), ErrBadType)
	}

	length := 0
	for _, c := range header[syncLength+1:] {
		if c == ' ' {
			c = '0'
		}

		if c < '0' || c > '9' {
			return 0, 0, fmt.Errorf("Invalid LDDS message header, length='%s': %w",
				string(header[syncLength+1:]), ErrBadLength)
		}

		length = length*10 + int(c-'0')
	}

	return t, length, nil
}

// Decode parses a complete frame. The bytes following the header must be
// exactly the declared length.
func Decode(b []byte) (*Message, error) {
	t, length, err := DecodeHeader(b)
	if err != nil {
		return nil, err
	}

	if available := len(b) - HeaderLength; available != length {
		return nil, fmt.Errorf("Declared %d bytes, got %d: %w", length, available, ErrInconsistentLength)
	}

	data := make([]byte, length)
	copy(data, b[HeaderLength:])

	return &Message{msgType: t, data: data}, nil
}

// ReadMessage reads exactly one frame from r: first the header, then the
// declared number of payload bytes. Short reads are retried until the frame
// is complete.
//
// A reader that ends before any byte was read yields io.EOF, one that ends
// mid frame yields io.ErrUnexpectedEOF.
func ReadMessage(r io.Reader) (*Message, error) {
	var header [HeaderLength]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	t, length, err := DecodeHeader(header[:])
	if err != nil {
		return nil, err
	}

	data := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, data); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
	}

	return &Message{msgType: t, data: data}, nil
}

// HasSyncCode reports whether b starts with a sync code followed by a
// parseable length field.
func HasSyncCode(b []byte) bool {
	if len(b) < HeaderLength || !bytes.HasPrefix(b, SyncCode) {
		return false
	}

	for _, c := range b[syncLength+1 : HeaderLength] {
		if c != ' ' && (c < '0' || c > '9') {
			return false
		}
	}

	return true
}
