package bootstrap_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/starwars-movies-go/internal/application/mediator"
	"github.com/andrescamacho/starwars-movies-go/internal/application/movie/commands"
	"github.com/andrescamacho/starwars-movies-go/internal/application/movie/dto"
	"github.com/andrescamacho/starwars-movies-go/internal/application/movie/queries"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/user"
	"github.com/andrescamacho/starwars-movies-go/internal/infrastructure/bootstrap"
	"github.com/andrescamacho/starwars-movies-go/internal/infrastructure/config"
	"github.com/andrescamacho/starwars-movies-go/test/helpers"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "bootstrap-test-secret-0123456789"
	cfg.Auth.BcryptCost = 4
	cfg.Auth.Seed = config.SeedConfig{
		Enabled:       true,
		AdminEmail:    "admin@starwars.local",
		AdminPassword: "Admin123",
		UserEmail:     "user@starwars.local",
		UserPassword:  "User1234",
	}
	config.SetDefaults(cfg)
	return cfg
}

func newApp(t *testing.T) *bootstrap.Application {
	t.Helper()
	app, err := bootstrap.NewApplication(testConfig(),
		bootstrap.WithDB(helpers.NewTestDB(t)),
		bootstrap.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		bootstrap.WithFilmSource(helpers.NewMockFilmSource(helpers.OriginalTrilogy()...)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestNewApplication_RegistersCatalogHandlers(t *testing.T) {
	// Arrange
	app := newApp(t)
	ctx := app.Context(context.Background())

	// Act
	synced, err := mediator.Send[int](ctx, app.Mediator, &commands.SyncMoviesCommand{UserID: "admin"})
	require.NoError(t, err)
	all, err := mediator.Send[[]*dto.MovieDTO](ctx, app.Mediator, &queries.GetAllMoviesQuery{PageNumber: 1, PageSize: 10})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, synced)
	require.Len(t, all, 3)
	assert.Equal(t, "A New Hope", all[0].Title)
}

func TestSeed_IsIdempotent(t *testing.T) {
	app := newApp(t)
	ctx := context.Background()

	first, err := app.Seed(ctx)
	require.NoError(t, err)
	second, err := app.Seed(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, first)
	assert.Equal(t, 0, second)

	admin, err := app.Users.FindByEmail(ctx, "admin@starwars.local")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.True(t, admin.HasRole(user.RoleAdministrator))
	assert.True(t, app.Hasher.Compare(admin.PasswordHash, "Admin123"))

	regular, err := app.Users.FindByEmail(ctx, "user@starwars.local")
	require.NoError(t, err)
	assert.Equal(t, []user.Role{user.RoleRegularUser}, regular.Roles)
}

func TestSeedDefaultUsers_SkipsBlankAccounts(t *testing.T) {
	users := helpers.NewMockUserRepository()

	created, err := bootstrap.SeedDefaultUsers(context.Background(), users, helpers.PlainHasher{}, nil, config.SeedConfig{
		Enabled:    true,
		AdminEmail: "Admin@Example.com", AdminPassword: "Admin123",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, created)
	found, _ := users.FindByEmail(context.Background(), "admin@example.com")
	assert.NotNil(t, found)
}

func TestRegisterHandlers_RejectsSecondRegistration(t *testing.T) {
	m := mediator.NewMediator()
	deps := bootstrap.Dependencies{
		Movies: helpers.NewMockMovieRepository(),
		Films:  helpers.NewMockFilmSource(),
	}
	require.NoError(t, bootstrap.RegisterHandlers(m, deps))

	assert.Error(t, bootstrap.RegisterHandlers(m, deps))
}
