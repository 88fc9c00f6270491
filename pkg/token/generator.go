package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// DefaultLength is the default id length in bytes.
const DefaultLength = 32

// MinLength is the shortest id GenerateWithLength accepts.
const MinLength = 16

// Generate generates a cryptographically secure random id.
func Generate() (string, error) {
	return GenerateWithLength(DefaultLength)
}

// GenerateWithLength generates an id from length random bytes.
func GenerateWithLength(length int) (string, error) {
	if length < MinLength {
		return "", fmt.Errorf("token length %d below minimum %d", length, MinLength)
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
