package userservice

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
)

func TestHashPassword(t *testing.T) {
	digest, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(digest, "pbkdf2:sha256:600000$"))
	assert.NotContains(t, digest, "s3cret-pass")

	parts := strings.Split(digest, "$")
	require.Len(t, parts, 3)
	assert.Len(t, parts[1], saltLength)
	assert.Len(t, parts[2], sha256.Size*2)

	assert.True(t, VerifyPassword("s3cret-pass", digest))
	assert.False(t, VerifyPassword("s3cret-Pass", digest))

	other, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, digest, other, "salts must differ")
}

func TestVerifyPassword_Formats(t *testing.T) {
	salt := "abcdefgh"
	legacy := pbkdf2.Key([]byte("hunter22"), []byte(salt), legacyPBKDF2Iterations, sha256.Size, sha256.New)
	short := pbkdf2.Key([]byte("hunter22"), []byte(salt), 1000, sha256.Size, sha256.New)

	testCases := []struct {
		name   string
		digest string
		want   bool
	}{
		{name: "explicit iterations", digest: "pbkdf2:sha256:1000$" + salt + "$" + hex.EncodeToString(short), want: true},
		{name: "default iterations", digest: "pbkdf2:sha256$" + salt + "$" + hex.EncodeToString(legacy), want: true},
		{name: "wrong iterations", digest: "pbkdf2:sha256:1001$" + salt + "$" + hex.EncodeToString(short), want: false},
		{name: "empty", digest: "", want: false},
		{name: "plaintext", digest: "hunter22", want: false},
		{name: "too many fields", digest: "pbkdf2:sha256:1000$a$b$c", want: false},
		{name: "unknown method", digest: "scrypt:32768:8:1$" + salt + "$00", want: false},
		{name: "unknown hash", digest: "pbkdf2:md5:1000$" + salt + "$" + hex.EncodeToString(short), want: false},
		{name: "bad iterations", digest: "pbkdf2:sha256:abc$" + salt + "$" + hex.EncodeToString(short), want: false},
		{name: "zero iterations", digest: "pbkdf2:sha256:0$" + salt + "$" + hex.EncodeToString(short), want: false},
		{name: "bad hex", digest: "pbkdf2:sha256:1000$" + salt + "$zz", want: false},
		{name: "truncated key", digest: "pbkdf2:sha256:1000$" + salt + "$" + hex.EncodeToString(short[:8]), want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, VerifyPassword("hunter22", tc.digest))
		})
	}
}

func TestPassword_SetMatches(t *testing.T) {
	var p Password
	require.NoError(t, p.set("pa55word!"))

	assert.NotEqual(t, "pa55word!", p.Hash())
	assert.True(t, p.matches("pa55word!"))
	assert.False(t, p.matches("pa55word"))
}
