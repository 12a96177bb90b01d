package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/starwars-movies-go/internal/adapters/persistence"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/user"
	"github.com/andrescamacho/starwars-movies-go/test/helpers"
)

func TestUserRepository_AddAndFind(t *testing.T) {
	// Arrange
	repo := persistence.NewGormUserRepository(helpers.NewTestDB(t))
	u := user.NewUser("5b0f6d1e-0000-4000-8000-000000000001", "Leia@Alderaan.gov", "Leia", "Organa", "hash", time.Now(), user.RoleAdministrator, user.RoleRegularUser)

	// Act
	err := repo.Add(context.Background(), u)

	// Assert
	require.NoError(t, err)

	byEmail, err := repo.FindByEmail(context.Background(), "LEIA@alderaan.gov")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, []user.Role{user.RoleAdministrator, user.RoleRegularUser}, byEmail.Roles)

	byID, err := repo.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Organa", byID.LastName)
}

func TestUserRepository_MissingReturnsNil(t *testing.T) {
	repo := persistence.NewGormUserRepository(helpers.NewTestDB(t))

	found, err := repo.FindByEmail(context.Background(), "nobody@example.com")

	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestUserRepository_DuplicateEmailIsConflict(t *testing.T) {
	repo := persistence.NewGormUserRepository(helpers.NewTestDB(t))
	require.NoError(t, repo.Add(context.Background(), user.NewUser("id-1", "han@falcon.io", "Han", "Solo", "h", time.Now(), user.RoleRegularUser)))

	err := repo.Add(context.Background(), user.NewUser("id-2", "HAN@falcon.io", "Han", "Solo", "h", time.Now(), user.RoleRegularUser))

	assert.ErrorIs(t, err, shared.ErrConflict)
}
