package token

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// fingerprintLen is the number of hex characters kept by Fingerprint.
const fingerprintLen = 12

// Fingerprint returns a short, stable SHA-256 prefix of id. Two log lines
// about the same link share a fingerprint without exposing the link.
func Fingerprint(id string) string {
	h := sha256.Sum256([]byte(id))
	return hex.EncodeToString(h[:])[:fingerprintLen]
}

// Mask keeps the first and last four characters of id. Ids of eight
// characters or fewer are fully masked.
func Mask(id string) string {
	if len(id) <= 8 {
		return strings.Repeat("*", len(id))
	}
	return id[:4] + "..." + id[len(id)-4:]
}
