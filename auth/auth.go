// Package auth builds the authenticator a DDS client presents in its
// auth-hello message. The password is never sent: the client proves it knows
// a SHA-1 digest of username and password, salted with the current time.
package auth

import (
	"crypto/sha1"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"
	"time"

	"github.com/luma/ldds/byteutil"
)

// DigestSize is the size of the preliminary (password) digest.
const DigestSize = sha1.Size

var ErrUnsupportedAlgorithm = errors.New("Unsupported hash algorithm")

// HashAlgorithm is the hash used to build the authenticator.
type HashAlgorithm int

const (
	SHA1 HashAlgorithm = iota + 1
	SHA256
)

// ParseHashAlgorithm accepts "sha1"/"sha" and "sha256"/"sha-256", case
// insensitively.
func ParseHashAlgorithm(s string) (HashAlgorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sha1", "sha-1", "sha":
		return SHA1, nil
	case "sha256", "sha-256":
		return SHA256, nil
	default:
		return 0, fmt.Errorf("%w: '%s'", ErrUnsupportedAlgorithm, s)
	}
}

// New returns a fresh hash for the algorithm.
func (a HashAlgorithm) New() (hash.Hash, error) {
	switch a {
	case SHA1:
		return sha1.New(), nil
	case SHA256:
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedAlgorithm, int(a))
	}
}

func (a HashAlgorithm) String() string {
	switch a {
	case SHA1:
		return "sha1"
	case SHA256:
		return "sha256"
	default:
		return "unknown"
	}
}

// PreliminaryDigest is SHA-1(username || password || username || password).
func PreliminaryDigest(username, password string) [DigestSize]byte {
	h := sha1.New()
	h.Write([]byte(username))
	h.Write([]byte(password))
	h.Write([]byte(username))
	h.Write([]byte(password))

	var digest [DigestSize]byte
	copy(digest[:], h.Sum(nil))
	return digest
}

// Token computes the authenticator for username at unixSeconds as uppercase
// hex of hash(username || digest || t || username || digest || t), where t
// is the low 32 bits of unixSeconds, big endian.
func Token(username string, digest [DigestSize]byte, unixSeconds int64, alg HashAlgorithm) (string, error) {
	h, err := alg.New()
	if err != nil {
		return "", err
	}

	var t [4]byte
	byteutil.PutInt4BigEndian(uint32(unixSeconds), t[:], 0)

	for i := 0; i < 2; i++ {
		h.Write([]byte(username))
		h.Write(digest[:])
		h.Write(t[:])
	}

	return byteutil.HexString(h.Sum(nil)), nil
}

// HelloTimeFormat is YYDDDHHMMSS, always rendered in UTC.
const HelloTimeFormat = "06002150405"

// Hello formats the payload of an auth-hello message.
func Hello(username string, t time.Time, token string, protocolVersion int) string {
	return username + " " + t.UTC().Format(HelloTimeFormat) + " " + token + " " + strconv.Itoa(protocolVersion)
}
