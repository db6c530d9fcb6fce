package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the minimum work factor. Deployments may raise it
// through NewHasher but can never configure a weaker one.
const DefaultBcryptCost = 10

// Hasher hashes and verifies passwords with bcrypt at a fixed cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given cost. Costs below
// DefaultBcryptCost are clamped up to it.
func NewHasher(cost int) *Hasher {
	if cost < DefaultBcryptCost {
		cost = DefaultBcryptCost
	}
	return &Hasher{cost: cost}
}

// Hash generates a salted password hash. Two calls with the same input
// produce different digests.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(digest), err
}

// Compare validates the given cleartext password against the hashed
// password in constant time. Malformed digests count as a mismatch, not a
// distinct error.
func (h *Hasher) Compare(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		// bcrypt reports malformed digests with dedicated errors; both fold
		// into a plain mismatch here.
		return ErrMismatchedHashAndPassword
	}
	return nil
}

var _ PasswordHasher = (*Hasher)(nil)

// HashPassword hashes with the default cost.
func HashPassword(password string) (string, error) {
	return NewHasher(DefaultBcryptCost).Hash(password)
}

// ComparePasswordAndHash validates password against hash with the default
// hasher.
func ComparePasswordAndHash(password, hash string) error {
	return NewHasher(DefaultBcryptCost).Compare(password, hash)
}
