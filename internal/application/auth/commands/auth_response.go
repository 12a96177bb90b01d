package commands

import (
	"time"

	"github.com/andrescamacho/starwars-movies-go/internal/domain/user"
)

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Roles     []string  `json:"roles"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func newAuthResponse(u *user.User, token user.Token) *AuthResponse {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}
	return &AuthResponse{
		Token:     token.Value,
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Roles:     roles,
		ExpiresAt: token.ExpiresAt,
	}
}
