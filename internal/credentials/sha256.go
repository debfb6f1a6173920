package credentials

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// SHA256Hasher produces unsalted hex SHA-256 digests. Equal passwords give
// equal digests.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (h SHA256Hasher) Verify(stored, candidate string) bool {
	if !isSHA256Hex(stored) {
		return false
	}
	got, _ := h.Hash(candidate)
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(stored)), []byte(got)) == 1
}

func (SHA256Hasher) NeedsRehash(stored string) bool {
	return SchemeOf(stored) != SchemeSHA256
}
