// Package domain defines the core domain models for linkdrop.
package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// MaxTokenIDLength bounds the size of a token id accepted from the outside.
const MaxTokenIDLength = 256

// Token is a single-use permission to download one file until ExpiresAt.
//
// A Token is never updated in place. It is written once by issuance and
// removed on its first consume.
type Token struct {
	// ID is the opaque, unguessable token id.
	ID string
	// FilePath is the absolute or working-directory-relative path of the file.
	FilePath string
	// ExpiresAt is the instant after which the token is invalid.
	ExpiresAt time.Time
}

// NewToken creates a token for path that expires after ttl.
func NewToken(id, path string, ttl time.Duration, now time.Time) (*Token, error) {
	t := &Token{
		ID:        id,
		FilePath:  path,
		ExpiresAt: now.Add(ttl),
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// IsExpired reports whether the token is no longer valid at now.
// A token expiring exactly at now is expired.
func (t *Token) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// FileName returns the client-facing file name. Only the base name is
// exposed so the server's directory layout never leaks.
func (t *Token) FileName() string {
	return filepath.Base(t.FilePath)
}

// Validate checks the token fields.
func (t *Token) Validate() error {
	if err := ValidateTokenID(t.ID); err != nil {
		return err
	}
	if strings.TrimSpace(t.FilePath) == "" {
		return ErrInvalidArgument.WithDetails("file path is required")
	}
	if t.ExpiresAt.IsZero() {
		return ErrInvalidArgument.WithDetails("expiry is required")
	}
	return nil
}

// Clone returns a copy of the token.
func (t *Token) Clone() *Token {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// ValidateTokenID checks that id is acceptable for a newly issued token.
// Ids already held by a store are opaque and are not re-checked.
func ValidateTokenID(id string) error {
	if id == "" {
		return ErrInvalidArgument.WithDetails("token id is required")
	}
	if len(id) > MaxTokenIDLength {
		return ErrInvalidArgument.WithDetails("token id too long")
	}
	for _, r := range id {
		if r <= 0x20 || r == 0x7f || r == '/' {
			return ErrInvalidArgument.WithDetails("token id contains invalid characters")
		}
	}
	return nil
}
