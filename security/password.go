package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Params controls the argon2id cost.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

var DefaultParams = Params{
	Time:    1,
	Memory:  64 * 1024,
	Threads: 4,
	KeyLen:  32,
	SaltLen: 16,
}

var (
	ErrMismatch        = errors.New("password does not match")
	ErrUnknownEncoding = errors.New("unrecognised password hash encoding")
)

const argonPrefix = "$argon2id$"

// HashPassword derives an argon2id digest with a fresh random salt, encoded as
// $argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>.
func HashPassword(password string) (string, error) {
	return HashPasswordWith(password, DefaultParams)
}

func HashPasswordWith(password string, p Params) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argonPrefix, argon2.Version, p.Memory, p.Time, p.Threads,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// VerifyPassword checks password against an encoded digest. Besides argon2id it
// accepts bcrypt digests and the unsalted hex SHA-256 digests of older deployments.
func VerifyPassword(encoded, password string) error {
	switch {
	case strings.HasPrefix(encoded, argonPrefix):
		return verifyArgon(encoded, password)
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		if err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)); err != nil {
			return ErrMismatch
		}
		return nil
	case isHexSHA256(encoded):
		sum := sha256.Sum256([]byte(password))
		if !SlowEqual([]byte(hex.EncodeToString(sum[:])), []byte(strings.ToLower(encoded))) {
			return ErrMismatch
		}
		return nil
	}
	return ErrUnknownEncoding
}

// NeedsRehash reports whether encoded should be replaced by a fresh argon2id digest.
func NeedsRehash(encoded string) bool {
	return !strings.HasPrefix(encoded, argonPrefix)
}

func verifyArgon(encoded, password string) error {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, hash
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return ErrUnknownEncoding
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return ErrUnknownEncoding
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return ErrUnknownEncoding
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return ErrUnknownEncoding
	}
	want, err := b64.DecodeString(parts[5])
	if err != nil {
		return ErrUnknownEncoding
	}

	got := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, uint32(len(want)))
	if !SlowEqual(got, want) {
		return ErrMismatch
	}
	return nil
}

// SlowEqual compares in constant time.
func SlowEqual(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

func isHexSHA256(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
