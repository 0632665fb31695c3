package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateInviteToken returns a 64-char hex token for invitation links.
func GenerateInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
