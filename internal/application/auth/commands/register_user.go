package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/andrescamacho/starwars-movies-go/internal/application/logging"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/user"
)

// RegisterUserCommand creates a regular account and signs the user in
type RegisterUserCommand struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	FirstName       string `json:"firstName" validate:"required,max=100"`
	LastName        string `json:"lastName" validate:"required,max=100"`
}

// RegisterUserHandler handles the register user command
type RegisterUserHandler struct {
	userRepo user.UserRepository
	hasher   user.PasswordHasher
	issuer   user.TokenIssuer
	clock    shared.Clock
	validate *validator.Validate
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(userRepo user.UserRepository, hasher user.PasswordHasher, issuer user.TokenIssuer, clock shared.Clock) *RegisterUserHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &RegisterUserHandler{
		userRepo: userRepo,
		hasher:   hasher,
		issuer:   issuer,
		clock:    clock,
		validate: validator.New(),
	}
}

// Handle executes the register user command
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd *RegisterUserCommand) (*AuthResponse, error) {
	if err := h.validateCommand(cmd); err != nil {
		return nil, err
	}

	email := user.NormalizeEmail(cmd.Email)
	existing, err := h.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.NewInternalError("failed to look up user", err)
	}
	if existing != nil {
		return nil, shared.NewConflictError(fmt.Sprintf("user with email %s already exists", email))
	}

	hash, err := h.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, shared.NewInternalError("failed to hash password", err)
	}

	u := user.NewUser(uuid.NewString(), email, strings.TrimSpace(cmd.FirstName), strings.TrimSpace(cmd.LastName), hash, h.clock.Now(), user.RoleRegularUser)
	if err := h.userRepo.Add(ctx, u); err != nil {
		return nil, shared.NewInternalError("failed to save user", err)
	}

	token, err := h.issuer.Issue(u)
	if err != nil {
		return nil, shared.NewInternalError("failed to issue token", err)
	}

	logging.FromContext(ctx).Info("user registered", logging.UserID(u.ID))
	return newAuthResponse(u, token), nil
}

func (h *RegisterUserHandler) validateCommand(cmd *RegisterUserCommand) error {
	if err := h.validate.Struct(cmd); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return shared.NewValidationError(lowerFirst(fe.Field()), fmt.Sprintf("failed %s validation", fe.Tag()))
		}
		return shared.NewInvalidInputError(err.Error())
	}
	if err := user.ValidatePassword(cmd.Password); err != nil {
		return err
	}
	if cmd.Password != cmd.ConfirmPassword {
		return shared.NewValidationError("confirmPassword", "passwords do not match")
	}
	return nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
