// Package token generates download link ids and derives safe forms of them
// for display.
//
// Id format: 32 random bytes from crypto/rand, Base64 RawURL encoded
// (43 characters), so ids can be placed in a URL path without escaping.
//
// Ids are bearer credentials. Logs and listings show either a Mask (first
// and last few characters) or a Fingerprint (short SHA-256 prefix), never
// the id itself.
package token
