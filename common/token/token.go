// Package token mints opaque bearer credentials. Only the hash of a token is
// ever persisted; the raw value is handed to the client once.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// Size is the number of random bytes in a token (256 bits).
const Size = 32

// New returns a fresh URL-safe token and its hash.
func New() (raw, hash string, err error) {
	buf := make([]byte, Size)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("reading random bytes: %w", err)
	}
	raw = base64.RawURLEncoding.EncodeToString(buf)
	return raw, Hash(raw), nil
}

// Hash is the lookup key stored in place of the token.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
