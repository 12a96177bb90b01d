package commands

import (
	"context"

	"github.com/andrescamacho/starwars-movies-go/internal/application/logging"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/user"
)

// LoginCommand authenticates a user by email and password
type LoginCommand struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler handles the login command. Unknown emails and wrong passwords
// produce the same Unauthorized error.
type LoginHandler struct {
	userRepo user.UserRepository
	hasher   user.PasswordHasher
	issuer   user.TokenIssuer
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(userRepo user.UserRepository, hasher user.PasswordHasher, issuer user.TokenIssuer) *LoginHandler {
	return &LoginHandler{
		userRepo: userRepo,
		hasher:   hasher,
		issuer:   issuer,
	}
}

// Handle executes the login command
func (h *LoginHandler) Handle(ctx context.Context, cmd *LoginCommand) (*AuthResponse, error) {
	if cmd.Email == "" || cmd.Password == "" {
		return nil, shared.NewInvalidInputError("email and password are required")
	}

	u, err := h.userRepo.FindByEmail(ctx, user.NormalizeEmail(cmd.Email))
	if err != nil {
		return nil, shared.NewInternalError("failed to look up user", err)
	}
	if u == nil || !h.hasher.Compare(u.PasswordHash, cmd.Password) {
		return nil, shared.NewUnauthorizedError("invalid email or password")
	}

	token, err := h.issuer.Issue(u)
	if err != nil {
		return nil, shared.NewInternalError("failed to issue token", err)
	}

	logging.FromContext(ctx).Info("user logged in", logging.UserID(u.ID))
	return newAuthResponse(u, token), nil
}
