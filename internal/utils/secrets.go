package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// SessionSecretBytes is the entropy of a generated session secret
const SessionSecretBytes = 32

// GenerateSecret returns n random bytes hex encoded
func GenerateSecret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateSessionSecret returns a value suitable for SESSION_SECRET
func GenerateSessionSecret() (string, error) {
	return GenerateSecret(SessionSecretBytes)
}
