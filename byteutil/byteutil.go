// Package byteutil holds the fixed-width field helpers shared by the LDDS
// codec, the authenticator and the DCP record accessors.
//
// Get/Put helpers index the buffer directly and panic like a slice
// expression would if the offset is out of range. Callers are expected to
// have validated the buffer length first.
package byteutil

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrFieldOutOfRange = errors.New("Field is out of range of the buffer")
	ErrFieldNotNumeric = errors.New("Field is not a decimal number")
)

// GetInt8BigEndian reads the 8 byte big endian integer at offset.
func GetInt8BigEndian(b []byte, offset int) uint64 {
	return binary.BigEndian.Uint64(b[offset : offset+8])
}

// GetInt4BigEndian reads the 4 byte big endian integer at offset.
func GetInt4BigEndian(b []byte, offset int) uint32 {
	return binary.BigEndian.Uint32(b[offset : offset+4])
}

// GetInt2BigEndian reads the 2 byte big endian integer at offset.
func GetInt2BigEndian(b []byte, offset int) uint16 {
	return binary.BigEndian.Uint16(b[offset : offset+2])
}

// GetInt4LittleEndian reads the 4 byte little endian integer at offset.
func GetInt4LittleEndian(b []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(b[offset : offset+4])
}

// GetInt2LittleEndian reads the 2 byte little endian integer at offset.
func GetInt2LittleEndian(b []byte, offset int) uint16 {
	return binary.LittleEndian.Uint16(b[offset : offset+2])
}

// PutInt4BigEndian writes v as 4 big endian bytes at offset.
func PutInt4BigEndian(v uint32, b []byte, offset int) {
	binary.BigEndian.PutUint32(b[offset:offset+4], v)
}

// PutInt4LittleEndian writes v as 4 little endian bytes at offset.
func PutInt4LittleEndian(v uint32, b []byte, offset int) {
	binary.LittleEndian.PutUint32(b[offset:offset+4], v)
}

// PutInt2LittleEndian writes v as 2 little endian bytes at offset.
func PutInt2LittleEndian(v uint16, b []byte, offset int) {
	binary.LittleEndian.PutUint16(b[offset:offset+2], v)
}

// CString returns the bytes starting at offset up to, but not including, the
// first NUL. If there is no NUL the rest of the buffer is returned.
func CString(b []byte, offset int) string {
	if offset >= len(b) {
		return ""
	}

	rest := b[offset:]
	if end := bytes.IndexByte(rest, 0); end >= 0 {
		rest = rest[:end]
	}

	return string(rest)
}

// PutCString writes s into b[offset:offset+padLen] as a NUL terminated
// string. At most padLen-1 bytes of s are kept, the remainder is NUL filled.
func PutCString(s string, b []byte, offset, padLen int) {
	if padLen <= 0 {
		return
	}

	field := b[offset : offset+padLen]
	n := copy(field[:padLen-1], s)
	for i := n; i < padLen; i++ {
		field[i] = 0
	}
}

// HexString encodes b as uppercase hex.
func HexString(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// FromHexString decodes hex in either case.
func FromHexString(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

// FromHexChar converts a hex digit to 0..15, or -1 if c isn't one.
func FromHexChar(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}

// IsHexChar reports whether c is a hex digit.
func IsHexChar(c byte) bool {
	return FromHexChar(c) != -1
}

// HexASCIIString renders n bytes of b from offset as a mixed dump: printable
// characters are shown as themselves, everything else as two hex digits.
func HexASCIIString(b []byte, offset, n int) string {
	if offset+n > len(b) {
		n = len(b) - offset
	}

	var sb strings.Builder
	for _, c := range b[offset : offset+n] {
		if c > 32 && c <= 126 {
			sb.WriteString("  ")
			sb.WriteByte(c)
		} else {
			fmt.Fprintf(&sb, " %02x", c)
		}
	}

	return sb.String()
}

// IndexOf returns the index of the first occurrence of pattern in buf, or -1.
func IndexOf(buf, pattern []byte) int {
	return bytes.Index(buf, pattern)
}

// ParseInt parses the n digit field at offset. Surrounding spaces are
// ignored, anything else that isn't a decimal digit is an error.
func ParseInt(b []byte, offset, n int) (int, error) {
	if offset < 0 || n < 0 || offset+n > len(b) {
		return 0, fmt.Errorf("%w: %d+%d of %d", ErrFieldOutOfRange, offset, n, len(b))
	}

	field := strings.TrimSpace(string(b[offset : offset+n]))
	if field == "" {
		return 0, fmt.Errorf("%w: empty field", ErrFieldNotNumeric)
	}

	for i := 0; i < len(field); i++ {
		if field[i] < '0' || field[i] > '9' {
			return 0, fmt.Errorf("%w: '%s'", ErrFieldNotNumeric, field)
		}
	}

	v, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("%w: '%s'", ErrFieldNotNumeric, field)
	}

	return v, nil
}
