package user

import (
	"context"
	"time"
)

// UserRepository defines account persistence operations.
// Lookups that find nothing return (nil, nil).
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Add(ctx context.Context, u *User) error
}

// PasswordHasher hashes and verifies account passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// TokenIssuer creates signed access tokens for authenticated users
type TokenIssuer interface {
	Issue(u *User) (Token, error)
}

// Token is a signed access token
type Token struct {
	Value     string
	ExpiresAt time.Time
}
