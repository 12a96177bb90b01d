package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/andrescamacho/starwars-movies-go/internal/application/auth"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/user"
)

const DefaultTokenTTL = 24 * time.Hour

// Claims carried in access tokens
type Claims struct {
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies HS256 access tokens
type JWTService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	clock    shared.Clock
}

var _ user.TokenIssuer = (*JWTService)(nil)

// NewJWTService creates a token service. The secret must not be empty; a zero
// ttl uses DefaultTokenTTL and a nil clock uses RealClock.
func NewJWTService(secret, issuer, audience string, ttl time.Duration, clock shared.Clock) (*JWTService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &JWTService{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		clock:    clock,
	}, nil
}

// Issue signs a token for u
func (s *JWTService) Issue(u *user.User) (user.Token, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.ttl)

	roles := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = string(r)
	}

	claims := Claims{
		Email: u.Email,
		Name:  u.FullName(),
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return user.Token{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return user.Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// Verify parses a token and returns its principal. Any failure is Unauthorized.
func (s *JWTService) Verify(token string) (auth.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return auth.Principal{}, &shared.DomainError{Kind: shared.ErrUnauthorized, Message: "invalid or expired token", Cause: err}
	}
	if claims.Subject == "" {
		return auth.Principal{}, shared.NewUnauthorizedError("token has no subject")
	}

	roles := make([]user.Role, len(claims.Roles))
	for i, r := range claims.Roles {
		roles[i] = user.Role(r)
	}
	return auth.Principal{UserID: claims.Subject, Email: claims.Email, Roles: roles}, nil
}
