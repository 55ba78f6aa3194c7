package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateID generates a session or pending-state id with 256 bits of
// entropy.
func GenerateID() (string, error) {
	return RandomToken(32)
}

// RandomToken returns size random bytes, base64url encoded without padding.
func RandomToken(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
