// Package auth hashes user passwords for storage.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	// ErrInvalidHash indicates the stored value is not an argon2id PHC string.
	ErrInvalidHash = errors.New("invalid hash format")
	// ErrIncompatibleVersion indicates the hash was produced by another argon2 version.
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
)

// Params are the Argon2id cost parameters recorded in every hash.
type Params struct {
	Memory  uint32 // KiB
	Time    uint32
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// DefaultParams follows the OWASP minimum for Argon2id.
var DefaultParams = Params{
	Memory:  64 * 1024,
	Time:    3,
	Threads: 4,
	SaltLen: 16,
	KeyLen:  32,
}

// Hasher produces and checks Argon2id password hashes.
type Hasher struct {
	params Params
}

// NewHasher returns a Hasher using params.
func NewHasher(params Params) (*Hasher, error) {
	if params.Memory == 0 || params.Time == 0 || params.Threads == 0 {
		return nil, fmt.Errorf("argon2 cost parameters must be positive: %+v", params)
	}
	if params.SaltLen < 8 || params.KeyLen < 16 {
		return nil, fmt.Errorf("argon2 salt must be at least 8 bytes and key at least 16 bytes: %+v", params)
	}
	return &Hasher{params: params}, nil
}

var defaultHasher = &Hasher{params: DefaultParams}

// HashPassword hashes password with DefaultParams.
func HashPassword(password string) (string, error) {
	return defaultHasher.Hash(password)
}

// VerifyPassword reports whether password matches encodedHash.
func VerifyPassword(password, encodedHash string) (bool, error) {
	return defaultHasher.Verify(password, encodedHash)
}

// Hash returns the PHC string $argon2id$v=19$m=..,t=..,p=..$salt$key for password.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	p := phc{
		params: h.params,
		salt:   salt,
		key:    h.params.derive(password, salt),
	}
	return p.String(), nil
}

// Verify checks password against encodedHash using the parameters stored in it.
// The comparison runs in constant time.
func (h *Hasher) Verify(password, encodedHash string) (bool, error) {
	p, err := parsePHC(encodedHash)
	if err != nil {
		return false, err
	}
	computed := p.params.derive(password, p.salt)
	return subtle.ConstantTimeCompare(computed, p.key) == 1, nil
}

// NeedsRehash reports whether encodedHash was produced with parameters other
// than the hasher's, so the caller can upgrade it after a successful Verify.
func (h *Hasher) NeedsRehash(encodedHash string) bool {
	p, err := parsePHC(encodedHash)
	if err != nil {
		return true
	}
	want := h.params
	return p.params.Memory != want.Memory ||
		p.params.Time != want.Time ||
		p.params.Threads != want.Threads ||
		p.params.KeyLen != want.KeyLen
}

func (p Params) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
}

type phc struct {
	params Params
	salt   []byte
	key    []byte
}

func (p phc) String() string {
	enc := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.params.Memory, p.params.Time, p.params.Threads,
		enc.EncodeToString(p.salt), enc.EncodeToString(p.key))
}

func parsePHC(encoded string) (phc, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != "argon2id" {
		return phc{}, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil {
		return phc{}, ErrInvalidHash
	}
	if version != argon2.Version {
		return phc{}, ErrIncompatibleVersion
	}

	var p phc
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &p.params.Memory, &p.params.Time, &p.params.Threads); err != nil {
		return phc{}, ErrInvalidHash
	}
	if p.params.Memory == 0 || p.params.Time == 0 || p.params.Threads == 0 {
		return phc{}, ErrInvalidHash
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(fields[4]); err != nil {
		return phc{}, ErrInvalidHash
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(fields[5]); err != nil || len(p.key) == 0 {
		return phc{}, ErrInvalidHash
	}
	p.params.SaltLen = uint32(len(p.salt))
	p.params.KeyLen = uint32(len(p.key))
	return p, nil
}
