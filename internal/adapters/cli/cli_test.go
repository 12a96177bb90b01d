package cli

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/starwars-movies-go/internal/infrastructure/bootstrap"
	"github.com/andrescamacho/starwars-movies-go/internal/infrastructure/pidfile"
	"github.com/andrescamacho/starwars-movies-go/test/helpers"
)

type cliHarness struct {
	t     *testing.T
	db    *gorm.DB
	films *helpers.MockFilmSource
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()
	t.Setenv("MOVIES_AUTH_JWT_SECRET", "cli-test-secret-0123456789")
	t.Setenv("MOVIES_AUTH_BCRYPT_COST", "4")
	return &cliHarness{
		t:     t,
		db:    helpers.NewTestDB(t),
		films: helpers.NewMockFilmSource(helpers.OriginalTrilogy()...),
	}
}

func (h *cliHarness) run(args ...string) (string, error) {
	h.t.Helper()
	cmd := NewRootCommand(
		bootstrap.WithDB(h.db),
		bootstrap.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		bootstrap.WithFilmSource(h.films),
	)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSyncThenList(t *testing.T) {
	h := newCLIHarness(t)

	out, err := h.run("sync")
	require.NoError(t, err)
	assert.Contains(t, out, "Synced: 3")

	out, err = h.run("movies", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "A New Hope")
	assert.Contains(t, out, "EPISODE")

	out, err = h.run("sync")
	require.NoError(t, err)
	assert.Contains(t, out, "Synced: 0")
}

func TestMoviesList_SearchAndEmpty(t *testing.T) {
	h := newCLIHarness(t)

	out, err := h.run("movies", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No movies found")

	_, err = h.run("sync")
	require.NoError(t, err)

	out, err = h.run("movies", "list", "--search", "new hope")
	require.NoError(t, err)
	assert.Contains(t, out, "A New Hope")
	assert.NotContains(t, out, "Return of the Jedi")
}

func TestMoviesGetAndDelete(t *testing.T) {
	h := newCLIHarness(t)
	_, err := h.run("sync")
	require.NoError(t, err)

	out, err := h.run("movies", "get", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"episodeId"`)

	out, err = h.run("movies", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Movie 1 deleted")

	_, err = h.run("movies", "get", "1")
	assert.ErrorContains(t, err, "movie 1 not found")

	_, err = h.run("movies", "delete", "1")
	assert.ErrorContains(t, err, "movie 1 not found")
}

func TestMoviesEpisode(t *testing.T) {
	h := newCLIHarness(t)
	_, err := h.run("sync")
	require.NoError(t, err)

	out, err := h.run("movies", "episode", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "A New Hope")

	out, err = h.run("movies", "episode", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "No movie for episode 9")
}

func TestMoviesGet_RejectsBadID(t *testing.T) {
	h := newCLIHarness(t)

	_, err := h.run("movies", "get", "abc")
	assert.ErrorContains(t, err, "invalid movie id")

	_, err = h.run("movies", "delete", "0")
	assert.ErrorContains(t, err, "invalid movie id")
}

func TestSeed(t *testing.T) {
	h := newCLIHarness(t)

	out, err := h.run("seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeding is disabled")

	t.Setenv("MOVIES_AUTH_SEED_ENABLED", "true")
	t.Setenv("MOVIES_AUTH_SEED_ADMIN_EMAIL", "admin@starwars.local")
	t.Setenv("MOVIES_AUTH_SEED_ADMIN_PASSWORD", "Admin123")
	t.Setenv("MOVIES_AUTH_SEED_USER_EMAIL", "user@starwars.local")
	t.Setenv("MOVIES_AUTH_SEED_USER_PASSWORD", "User1234")

	out, err = h.run("seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 2 account(s)")

	out, err = h.run("seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 0 account(s)")
}

func TestHealth(t *testing.T) {
	h := newCLIHarness(t)

	out, err := h.run("health")
	require.NoError(t, err)
	assert.Contains(t, out, "Catalog is healthy")
}

func TestConfigShow_RedactsSecrets(t *testing.T) {
	h := newCLIHarness(t)
	t.Setenv("DATABASE_URL", "postgresql://catalog:hunter2@db:5432/movies")

	out, err := h.run("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "(set, redacted)")
	assert.NotContains(t, out, "cli-test-secret")
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "catalog:xxxxx@db:5432")
}

func TestConfig_MissingSecretFails(t *testing.T) {
	t.Setenv("MOVIES_AUTH_JWT_SECRET", "")
	cmd := NewRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"config", "show"})

	err := cmd.Execute()
	assert.ErrorContains(t, err, "failed to load config")
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "postgres://u:xxxxx@h:5432/db", maskPassword("postgres://u:secret@h:5432/db"))
	assert.Equal(t, "postgres://u@h/db", maskPassword("postgres://u@h/db"))
	assert.Equal(t, "not a url", maskPassword("not a url"))
}

func TestServe_RefusesWhenPIDFileIsHeld(t *testing.T) {
	h := newCLIHarness(t)
	path := filepath.Join(t.TempDir(), "movies.pid")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("%d\n", os.Getppid())), 0o644))

	_, err := h.run("serve", "--pid-file", path)
	assert.ErrorIs(t, err, pidfile.ErrAlreadyRunning)
}
