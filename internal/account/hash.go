package account

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Hasher produces the stored digest of a plaintext password. Implementations
// must be deterministic: the digest is a lookup key, not a verifier.
type Hasher interface {
	Hash(password string) string
}

// SHA256Hasher is base64(sha256(password)), the format existing records use.
// It is unsalted and fast; see PBKDF2Hasher for the opt-in alternative.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// PBKDF2Hasher derives a PBKDF2-HMAC-SHA256 key using one application-wide
// pepper as salt.
type PBKDF2Hasher struct {
	Pepper     []byte
	Iterations int
}

const pbkdf2KeyLen = 32

func (h PBKDF2Hasher) Hash(password string) string {
	key := pbkdf2.Key([]byte(password), h.Pepper, h.Iterations, pbkdf2KeyLen, sha256.New)
	return "pbkdf2$" + base64.StdEncoding.EncodeToString(key)
}

// NewHasher resolves a configured scheme name.
func NewHasher(scheme, pepper string, iterations int) (Hasher, error) {
	switch scheme {
	case "", "sha256":
		return SHA256Hasher{}, nil
	case "pbkdf2":
		if pepper == "" || iterations <= 0 {
			return nil, fmt.Errorf("pbkdf2 requires a pepper and positive iterations")
		}
		return PBKDF2Hasher{Pepper: []byte(pepper), Iterations: iterations}, nil
	default:
		return nil, fmt.Errorf("unsupported password hash %q", scheme)
	}
}
