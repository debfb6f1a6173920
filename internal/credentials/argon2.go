package credentials

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/drscreen/internal/common"
	"golang.org/x/crypto/argon2"
)

const argon2Prefix = "$argon2id$"

// Argon2Hasher produces salted argon2id digests.
type Argon2Hasher struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

// NewArgon2Hasher returns a hasher with t=1, 64 MiB and 4 threads.
func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32, SaltLen: 16}
}

var b64 = base64.RawStdEncoding

func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := common.GenerateRandByteArray(h.SaltLen)
	key := argon2.IDKey([]byte(password), salt, h.Time, h.Memory, h.Threads, h.KeyLen)
	defer common.WipeByteArray(key)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix, argon2.Version, h.Memory, h.Time, h.Threads,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

type argon2Digest struct {
	version int
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

func parseArgon2(stored string) (*argon2Digest, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(stored, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, fmt.Errorf("malformed argon2id digest")
	}

	d := &argon2Digest{}
	if _, err := fmt.Sscanf(parts[2], "v=%d", &d.version); err != nil {
		return nil, fmt.Errorf("argon2id version: %w", err)
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &d.memory, &d.time, &d.threads); err != nil {
		return nil, fmt.Errorf("argon2id params: %w", err)
	}

	var err error
	if d.salt, err = b64.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("argon2id salt: %w", err)
	}
	if d.key, err = b64.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("argon2id key: %w", err)
	}
	if len(d.key) == 0 || d.time == 0 || d.threads == 0 {
		return nil, fmt.Errorf("malformed argon2id digest")
	}
	return d, nil
}

func (h *Argon2Hasher) Verify(stored, candidate string) bool {
	d, err := parseArgon2(stored)
	if err != nil || d.version != argon2.Version {
		return false
	}
	key := argon2.IDKey([]byte(candidate), d.salt, d.time, d.memory, d.threads, uint32(len(d.key)))
	defer common.WipeByteArray(key)

	return subtle.ConstantTimeCompare(key, d.key) == 1
}

func (h *Argon2Hasher) NeedsRehash(stored string) bool {
	d, err := parseArgon2(stored)
	if err != nil {
		return true
	}
	return d.version != argon2.Version ||
		d.memory != h.Memory || d.time != h.Time || d.threads != h.Threads ||
		uint32(len(d.key)) != h.KeyLen || len(d.salt) != h.SaltLen
}
