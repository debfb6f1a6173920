// Package credentials hashes and verifies passwords.
//
// Two digest formats are understood:
//
//	sha256    64 lowercase hex chars, unsalted single-pass SHA-256 (legacy)
//	argon2id  $argon2id$v=19$m=<KiB>,t=<iterations>,p=<threads>$<salt>$<key>
//
// Verify compares in constant time. Which format new passwords get is
// chosen by the configured scheme; stored digests are always verified by
// their own format, so switching schemes never locks existing users out.
package credentials

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Scheme names.
const (
	SchemeSHA256   = "sha256"
	SchemeArgon2id = "argon2id"
)

type Hasher interface {
	// Hash returns the digest to store for password.
	Hash(password string) (string, error)
	// Verify reports whether candidate matches the stored digest.
	Verify(stored, candidate string) bool
	// NeedsRehash reports whether stored was produced by a different
	// scheme or parameters than this hasher would use today.
	NeedsRehash(stored string) bool
}

// SchemeOf identifies the format of a stored digest, or "" if unknown.
func SchemeOf(stored string) string {
	switch {
	case strings.HasPrefix(stored, argon2Prefix):
		return SchemeArgon2id
	case isSHA256Hex(stored):
		return SchemeSHA256
	default:
		return ""
	}
}

func isSHA256Hex(s string) bool {
	if len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// New returns the Hasher for a configured scheme name.
func New(scheme string) (*VersionedHasher, error) {
	var primary Hasher
	switch strings.ToLower(scheme) {
	case "", SchemeSHA256:
		primary = SHA256Hasher{}
	case SchemeArgon2id:
		primary = NewArgon2Hasher()
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
	return &VersionedHasher{primary: primary, argon: NewArgon2Hasher()}, nil
}

// VersionedHasher hashes with the configured scheme and verifies digests of
// any known scheme.
type VersionedHasher struct {
	primary Hasher
	argon   *Argon2Hasher
}

func (v *VersionedHasher) Hash(password string) (string, error) {
	return v.primary.Hash(password)
}

func (v *VersionedHasher) Verify(stored, candidate string) bool {
	switch SchemeOf(stored) {
	case SchemeArgon2id:
		return v.argon.Verify(stored, candidate)
	case SchemeSHA256:
		return SHA256Hasher{}.Verify(stored, candidate)
	default:
		return false
	}
}

func (v *VersionedHasher) NeedsRehash(stored string) bool {
	return v.primary.NeedsRehash(stored)
}
