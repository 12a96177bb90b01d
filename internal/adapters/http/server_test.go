package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/starwars-movies-go/internal/infrastructure/bootstrap"
	"github.com/andrescamacho/starwars-movies-go/internal/infrastructure/config"
	"github.com/andrescamacho/starwars-movies-go/test/helpers"
)

type testAPI struct {
	t       *testing.T
	handler http.Handler
	admin   string
	regular string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "http-test-secret-0123456789abcdef"
	cfg.Auth.BcryptCost = 4
	cfg.Auth.Seed = config.SeedConfig{
		Enabled:       true,
		AdminEmail:    "admin@starwars.local",
		AdminPassword: "Admin123",
		UserEmail:     "user@starwars.local",
		UserPassword:  "User1234",
	}
	config.SetDefaults(cfg)

	app, err := bootstrap.NewApplication(cfg,
		bootstrap.WithDB(helpers.NewTestDB(t)),
		bootstrap.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		bootstrap.WithFilmSource(helpers.NewMockFilmSource(helpers.OriginalTrilogy()...)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	_, err = app.Seed(context.Background())
	require.NoError(t, err)

	api := &testAPI{t: t, handler: app.Server.Handler()}
	api.admin = api.login("admin@starwars.local", "Admin123")
	api.regular = api.login("user@starwars.local", "User1234")
	return api
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login(email, password string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(a.t, resp.Token)
	return resp.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func moviePayload(title string, episode int) map[string]interface{} {
	return map[string]interface{}{
		"title":        title,
		"episodeId":    episode,
		"openingCrawl": "A long time ago in a galaxy far, far away....",
		"director":     "Rian Johnson",
		"producer":     "Kathleen Kennedy",
		"releaseDate":  "2017-12-15",
		"characters":   []string{"Rey", "Luke Skywalker"},
	}
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMovies_RequireAuthentication(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/movies", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/movies", "garbage", nil).Code)
}

func TestMovies_WritesRequireAdministrator(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/movies", api.regular, moviePayload("The Last Jedi", 8))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodPost, "/api/movies/sync", api.regular, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodDelete, "/api/movies/1", api.regular, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMovies_CreateGetUpdateDelete(t *testing.T) {
	api := newTestAPI(t)

	// Create
	rec := api.do(http.MethodPost, "/api/movies", api.admin, moviePayload("The Last Jedi", 8))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "/api/movies/1", rec.Header().Get("Location"))
	assert.Equal(t, "The Last Jedi", created["title"])
	assert.Equal(t, []interface{}{}, created["planets"])

	// Duplicate episode
	rec = api.do(http.MethodPost, "/api/movies", api.admin, moviePayload("Episode VIII", 8))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Get as regular user
	rec = api.do(http.MethodGet, "/api/movies/1", api.regular, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(8), decode[map[string]interface{}](t, rec)["episodeId"])

	// Update
	update := moviePayload("Star Wars: The Last Jedi", 8)
	rec = api.do(http.MethodPut, "/api/movies/1", api.admin, update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "Star Wars: The Last Jedi", updated["title"])
	assert.NotNil(t, updated["updatedAt"])

	// Update of a missing movie
	rec = api.do(http.MethodPut, "/api/movies/99", api.admin, update)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Delete twice
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/movies/1", api.admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, "/api/movies/1", api.admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/movies/1", api.admin, nil).Code)
}

func TestMovies_ValidationErrorsPerField(t *testing.T) {
	api := newTestAPI(t)
	payload := moviePayload(strings.Repeat("x", 201), 0)
	payload["releaseDate"] = "next tuesday"
	delete(payload, "director")

	rec := api.do(http.MethodPost, "/api/movies", api.admin, payload)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[struct {
		Code   string            `json:"code"`
		Errors map[string]string `json:"errors"`
	}](t, rec)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	assert.Contains(t, resp.Errors, "title")
	assert.Contains(t, resp.Errors, "episodeId")
	assert.Contains(t, resp.Errors, "director")
	assert.Contains(t, resp.Errors, "releaseDate")
}

func TestMovies_MalformedBodyAndIDs(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/movies", api.admin, `{"title":`).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/movies", api.admin, `{"unknown":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/movies/abc", api.admin, nil).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/movies?pageSize=ten", api.admin, nil).Code)
}

func TestMovies_SyncListSearchAndPaginate(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/movies/sync", api.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Movies synchronized successfully","syncedCount":3}`, rec.Body.String())

	rec = api.do(http.MethodPost, "/api/movies/sync", api.admin, nil)
	assert.Equal(t, float64(0), decode[map[string]interface{}](t, rec)["syncedCount"])

	rec = api.do(http.MethodGet, "/api/movies?pageNumber=2&pageSize=2", api.regular, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[[]map[string]interface{}](t, rec)
	require.Len(t, page, 1)
	assert.Equal(t, "Return of the Jedi", page[0]["title"])

	rec = api.do(http.MethodGet, "/api/movies?searchTerm=kershner", api.regular, nil)
	found := decode[[]map[string]interface{}](t, rec)
	require.Len(t, found, 1)
	assert.Equal(t, "The Empire Strikes Back", found[0]["title"])

	rec = api.do(http.MethodGet, "/api/movies?searchTerm=jar%20jar", api.regular, nil)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/movies/episode/6", api.regular, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]interface{}](t, rec), 1)
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	api := newTestAPI(t)
	body := map[string]string{
		"email":           "finn@resistance.org",
		"password":        "Stormtrooper2187",
		"confirmPassword": "Stormtrooper2187",
		"firstName":       "Finn",
		"lastName":        "FN-2187",
	}

	rec := api.do(http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[map[string]interface{}](t, rec)
	assert.Equal(t, []interface{}{"RegularUser"}, resp["roles"])

	rec = api.do(http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	token := api.login("finn@resistance.org", "Stormtrooper2187")
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/movies", token, nil).Code)

	rec = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "finn@resistance.org", "password": "wrong1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_RegisterValidation(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "not-an-email", "password": "abc", "confirmPassword": "abc", "firstName": "", "lastName": "X",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[struct {
		Errors map[string]string `json:"errors"`
	}](t, rec)
	assert.Contains(t, resp.Errors, "email")
	assert.Contains(t, resp.Errors, "password")
	assert.Contains(t, resp.Errors, "firstName")
}
