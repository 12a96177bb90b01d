package user

import (
	"strings"
	"time"
	"unicode"

	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

// Role grants access to catalog operations
type Role string

const (
	RoleAdministrator Role = "Administrator"
	RoleRegularUser   Role = "RegularUser"
)

const (
	MaxNameLength     = 100
	MinPasswordLength = 6
)

// User is a registered account
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Roles        []Role
	CreatedAt    time.Time
}

// NewUser creates an account holding the given roles
func NewUser(id, email, firstName, lastName, passwordHash string, createdAt time.Time, roles ...Role) *User {
	return &User{
		ID:           id,
		Email:        NormalizeEmail(email),
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		Roles:        roles,
		CreatedAt:    createdAt,
	}
}

// HasRole reports whether the user holds role
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// FullName joins first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NormalizeEmail lowercases and trims an email so lookups are case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword enforces the account password policy
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return shared.NewValidationError("password", "must be at least 6 characters")
	}
	var hasDigit, hasLower bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		}
	}
	if !hasDigit {
		return shared.NewValidationError("password", "must contain at least one digit")
	}
	if !hasLower {
		return shared.NewValidationError("password", "must contain at least one lowercase letter")
	}
	return nil
}
