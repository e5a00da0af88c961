package protocol

const (
	// HeaderLength is the size of every frame header: sync, type and length.
	HeaderLength = 10

	// MaxLength is the largest payload the 5 digit length field can describe.
	MaxLength = 99999

	syncLength = 4
)

// SyncCode starts every LDDS frame.
var SyncCode = []byte("FAF0")

// Message is one LDDS frame. Use NewMessage, Decode or ReadMessage to build
// one; the payload is owned by the Message and must not be modified.
type Message struct {
	msgType MessageType
	data    []byte
}

// NewMessage validates t and copies payload into a new Message.
func NewMessage(t MessageType, payload []byte) (*Message, error) {
	if err := checkEncodable(t, len(payload)); err != nil {
		return nil, err
	}

	data := make([]byte, len(payload))
	copy(data, payload)

	return &Message{msgType: t, data: data}, nil
}

// Type returns the message type carried in the header.
func (m *Message) Type() MessageType {
	return m.msgType
}

// Data returns the payload. The returned slice is shared with the Message.
func (m *Message) Data() []byte {
	return m.data
}

// Len returns the payload length, header excluded.
func (m *Message) Len() int {
	return len(m.data)
}

// Bytes returns the full frame, header followed by payload.
func (m *Message) Bytes() []byte {
	b := make([]byte, HeaderLength+len(m.data))
	putHeader(b, m.msgType, len(m.data))
	copy(b[HeaderLength:], m.data)

	return b
}

// ServerError returns the server error carried in the payload, or nil if the
// payload isn't an error report.
func (m *Message) ServerError() (*ServerError, error) {
	return ParseServerError(m.data)
}

// Equal compares type and payload.
func (m *Message) Equal(other *Message) bool {
	if m == nil || other == nil {
		return m == other
	}

	return m.msgType == other.msgType && string(m.data) == string(other.data)
}
