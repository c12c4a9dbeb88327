package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPrompt returns the hex SHA-256 of a rendered prompt, used to correlate log lines.
func HashPrompt(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
