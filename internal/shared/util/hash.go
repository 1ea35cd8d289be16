package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashUserKey returns a filesystem-safe identifier for a user ID.
func HashUserKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// SubjectKey returns a stable key for an Aadhaar/PAN pair without exposing either.
func SubjectKey(aadhaar, pan string) string {
	return HashUserKey(strings.TrimSpace(aadhaar) + "|" + strings.ToUpper(strings.TrimSpace(pan)))
}
