package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/pbkdf2"

	"github.com/coopsoft/usermgmt/internal/domain"
)

// ErrMismatch is returned by Compare when the digest does not match.
var ErrMismatch = errors.New("security: digest mismatch")

const (
	DefaultIterations = 120_000
	keyLen            = 32
)

// PBKDF2Hasher derives a deterministic one-way digest from a plaintext
// password using PBKDF2-SHA256 keyed by a deployment-wide secret. The login
// path recomputes and compares digests, so the transform must be stable for
// a given secret; rotating the secret invalidates every stored credential.
type PBKDF2Hasher struct {
	secret     []byte
	iterations int
}

// NewPBKDF2Hasher fails when the secret is empty. An unconfigured hasher
// must abort startup rather than degrade to storing anything weaker.
func NewPBKDF2Hasher(secret string, iterations int) (*PBKDF2Hasher, error) {
	if secret == "" {
		return nil, domain.New(domain.KindInternal, "hash_secret_missing",
			"credential hashing secret is not configured")
	}
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &PBKDF2Hasher{secret: []byte(secret), iterations: iterations}, nil
}

func (h *PBKDF2Hasher) Hash(password string) (string, error) {
	key := pbkdf2.Key([]byte(password), h.secret, h.iterations, keyLen, sha256.New)
	return base64.RawStdEncoding.EncodeToString(key), nil
}

// Compare recomputes the digest and checks it in constant time.
// Returns nil on match, ErrMismatch otherwise.
func (h *PBKDF2Hasher) Compare(hash string, password string) error {
	derived, err := h.Hash(password)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(derived), []byte(hash)) != 1 {
		return ErrMismatch
	}
	return nil
}

// MeetsStrengthPolicy implements the auth.PasswordHasher port.
func (h *PBKDF2Hasher) MeetsStrengthPolicy(password string) bool {
	return MeetsStrengthPolicy(password)
}

// MeetsStrengthPolicy passes iff the password is at least 6 characters long
// and contains at least one ASCII digit and one ASCII letter. No other
// checks: no special-character requirement, no maximum length.
func MeetsStrengthPolicy(password string) bool {
	if len(password) < 6 {
		return false
	}
	var hasDigit, hasLetter bool
	for i := 0; i < len(password); i++ {
		c := password[i]
		switch {
		case c >= '0' && c <= '9':
			hasDigit = true
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			hasLetter = true
		}
	}
	return hasDigit && hasLetter
}
