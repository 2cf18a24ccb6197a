package security

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fastParams = Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$"))

	require.NoError(t, VerifyPassword(hash, "admin123"))
	assert.ErrorIs(t, VerifyPassword(hash, "admin124"), ErrMismatch)
	assert.False(t, NeedsRehash(hash))
}

func TestHash_SaltIsPerCall(t *testing.T) {
	a, err := HashPasswordWith("same", fastParams)
	require.NoError(t, err)
	b, err := HashPasswordWith("same", fastParams)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	require.NoError(t, VerifyPassword(a, "same"))
	require.NoError(t, VerifyPassword(b, "same"))
}

func TestVerify_LegacyDigests(t *testing.T) {
	bc, err := bcrypt.GenerateFromPassword([]byte("editor123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, VerifyPassword(string(bc), "editor123"))
	assert.ErrorIs(t, VerifyPassword(string(bc), "nope"), ErrMismatch)
	assert.True(t, NeedsRehash(string(bc)))

	sum := sha256.Sum256([]byte("viewer123"))
	legacy := hex.EncodeToString(sum[:])
	require.NoError(t, VerifyPassword(legacy, "viewer123"))
	assert.ErrorIs(t, VerifyPassword(legacy, "viewer12"), ErrMismatch)
}

func TestVerify_Malformed(t *testing.T) {
	assert.ErrorIs(t, VerifyPassword("plain", "plain"), ErrUnknownEncoding)
	assert.ErrorIs(t, VerifyPassword("$argon2id$v=19$m=1$x", "a"), ErrUnknownEncoding)
	assert.ErrorIs(t, VerifyPassword("$argon2id$v=18$m=8192,t=1,p=1$AAAA$AAAA", "a"), ErrUnknownEncoding)
}
