package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewAddress generates a fresh 32-byte identity address, hex encoded.
// Addresses are assigned once at registration and never change.
func NewAddress() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate address: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
