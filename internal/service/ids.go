package service

import (
	"crypto/rand"
	"encoding/hex"
	"github.com/google/uuid"
	"strings"
)

func newID() string {
	return uuid.NewString()
}

// newSessionToken returns 32 random bytes, hex encoded.
func newSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// optional turns blank strings into nil so they are stored as NULL.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
