package bootstrap

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/starwars-movies-go/internal/application/logging"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/user"
	"github.com/andrescamacho/starwars-movies-go/internal/infrastructure/config"
)

type seedAccount struct {
	email     string
	password  string
	firstName string
	lastName  string
	role      user.Role
}

// SeedDefaultUsers creates the configured administrator and regular accounts
// when they do not exist yet. Existing accounts are left untouched, so calling
// it on every start is safe. It returns how many accounts were created.
func SeedDefaultUsers(ctx context.Context, users user.UserRepository, hasher user.PasswordHasher, clock shared.Clock, seed config.SeedConfig) (int, error) {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	logger := logging.FromContext(ctx).With(logging.Component("seed"))

	accounts := []seedAccount{
		{seed.AdminEmail, seed.AdminPassword, "Admin", "User", user.RoleAdministrator},
		{seed.UserEmail, seed.UserPassword, "Regular", "User", user.RoleRegularUser},
	}

	created := 0
	for _, acct := range accounts {
		if acct.email == "" {
			continue
		}
		email := user.NormalizeEmail(acct.email)

		existing, err := users.FindByEmail(ctx, email)
		if err != nil {
			return created, fmt.Errorf("failed to look up %s: %w", email, err)
		}
		if existing != nil {
			logger.Debug("seed account already present", "email", email)
			continue
		}

		hash, err := hasher.Hash(acct.password)
		if err != nil {
			return created, fmt.Errorf("failed to hash password for %s: %w", email, err)
		}
		u := user.NewUser(uuid.NewString(), email, acct.firstName, acct.lastName, hash, clock.Now(), acct.role)
		if err := users.Add(ctx, u); err != nil {
			return created, fmt.Errorf("failed to create %s: %w", email, err)
		}
		created++
		logger.Info("seed account created", "email", email, "role", string(acct.role))
	}
	return created, nil
}
