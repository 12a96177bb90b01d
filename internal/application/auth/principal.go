package auth

import (
	"context"

	"github.com/andrescamacho/starwars-movies-go/internal/domain/user"
)

// Principal is the authenticated caller of a request
type Principal struct {
	UserID string
	Email  string
	Roles  []user.Role
}

// HasAnyRole reports whether the principal holds at least one of roles
func (p Principal) HasAnyRole(roles ...user.Role) bool {
	for _, held := range p.Roles {
		for _, wanted := range roles {
			if held == wanted {
				return true
			}
		}
	}
	return false
}

// Context keys for passing authentication data through context
type authContextKey int

const (
	principalKey authContextKey = iota + 1000 // Offset from logger keys
)

// WithPrincipal injects the authenticated caller into the context
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext extracts the authenticated caller from context
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok && p.UserID != ""
}
