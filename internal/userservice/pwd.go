package userservice

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Digests use the werkzeug layout "pbkdf2:<hash>:<iterations>$<salt>$<hex key>" so that
// accounts created by earlier deployments keep verifying.
const (
	pbkdf2Iterations       = 600_000
	legacyPBKDF2Iterations = 260_000
	saltLength             = 16
	saltChars              = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var hashFuncs = map[string]func() hash.Hash{
	"sha256": sha256.New,
	"sha512": sha512.New,
}

// HashPassword returns a salted PBKDF2-SHA256 digest of plain.
func HashPassword(plain string) (string, error) {
	salt, err := genSalt(saltLength)
	if err != nil {
		return "", err
	}

	key := pbkdf2.Key([]byte(plain), []byte(salt), pbkdf2Iterations, sha256.Size, sha256.New)

	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", pbkdf2Iterations, salt, hex.EncodeToString(key)), nil
}

// VerifyPassword re-derives the key with the parameters embedded in digest. A malformed
// digest never matches.
func VerifyPassword(plain, digest string) bool {
	parts := strings.Split(digest, "$")
	if len(parts) != 3 {
		return false
	}
	method, salt, encoded := parts[0], parts[1], parts[2]

	params := strings.Split(method, ":")
	if len(params) < 2 || len(params) > 3 || params[0] != "pbkdf2" {
		return false
	}

	newHash, ok := hashFuncs[params[1]]
	if !ok {
		return false
	}

	iterations := legacyPBKDF2Iterations
	if len(params) == 3 {
		n, err := strconv.Atoi(params[2])
		if err != nil || n < 1 {
			return false
		}
		iterations = n
	}

	want, err := hex.DecodeString(encoded)
	if err != nil || len(want) != newHash().Size() {
		return false
	}

	got := pbkdf2.Key([]byte(plain), []byte(salt), iterations, len(want), newHash)

	return hmac.Equal(got, want)
}

func genSalt(n int) (string, error) {
	limit := big.NewInt(int64(len(saltChars)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = saltChars[idx.Int64()]
	}

	return string(b), nil
}

// set hashes pwd. The plaintext is not kept.
func (p *Password) set(pwd string) error {
	digest, err := HashPassword(pwd)
	if err != nil {
		return err
	}

	p.hash = digest

	return nil
}

func (p *Password) matches(pwd string) bool {
	return VerifyPassword(pwd, p.hash)
}

// Hash returns the stored digest.
func (p Password) Hash() string {
	return p.hash
}
