package session

import (
	"crypto/rand"
	"encoding/hex"
)

// generateSessionID returns 32 hex characters of cryptographic randomness.
// Session identifiers are bearer tokens, so they must not be guessable.
func generateSessionID() (string, error) {
	var raw [16]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw[:]), nil
}
