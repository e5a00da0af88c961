package auth

import "time"

// Credentials holds a username and the digest of its password. The password
// itself is dropped once the digest is computed.
type Credentials struct {
	username string
	digest   [DigestSize]byte
}

func NewCredentials(username, password string) *Credentials {
	return &Credentials{
		username: username,
		digest:   PreliminaryDigest(username, password),
	}
}

func (c *Credentials) Username() string {
	return c.username
}

func (c *Credentials) Digest() [DigestSize]byte {
	return c.digest
}

func (c *Credentials) Token(t time.Time, alg HashAlgorithm) (string, error) {
	return Token(c.username, c.digest, t.Unix(), alg)
}

// Hello builds the complete auth-hello payload for time t.
func (c *Credentials) Hello(t time.Time, alg HashAlgorithm, protocolVersion int) (string, error) {
	token, err := c.Token(t, alg)
	if err != nil {
		return "", err
	}

	return Hello(c.username, t, token, protocolVersion), nil
}
