package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/andrescamacho/starwars-movies-go/internal/domain/user"
)

// BcryptHasher hashes passwords with bcrypt
type BcryptHasher struct {
	cost int
}

var _ user.PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher creates a hasher. A cost outside bcrypt's range uses the default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
