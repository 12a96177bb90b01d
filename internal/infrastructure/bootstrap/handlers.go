package bootstrap

import (
	"fmt"

	authCmd "github.com/andrescamacho/starwars-movies-go/internal/application/auth/commands"
	"github.com/andrescamacho/starwars-movies-go/internal/application/mediator"
	movieCmd "github.com/andrescamacho/starwars-movies-go/internal/application/movie/commands"
	"github.com/andrescamacho/starwars-movies-go/internal/application/movie/dto"
	movieQuery "github.com/andrescamacho/starwars-movies-go/internal/application/movie/queries"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/movie"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/user"
)

// Dependencies are the ports the request handlers are built from
type Dependencies struct {
	Movies movie.MovieRepository
	Users  user.UserRepository
	Films  movie.FilmSource
	Hasher user.PasswordHasher
	Tokens user.TokenIssuer
	Clock  shared.Clock
}

// RegisterHandlers binds every catalog and account request to its handler.
// Handlers publish their notifications through m.
func RegisterHandlers(m *mediator.Mediator, deps Dependencies) error {
	clock := deps.Clock
	if clock == nil {
		clock = shared.NewRealClock()
	}

	if err := mediator.RegisterHandler[*movieCmd.CreateMovieCommand, *dto.MovieDTO](m,
		movieCmd.NewCreateMovieHandler(deps.Movies, m, clock)); err != nil {
		return fmt.Errorf("failed to register CreateMovie handler: %w", err)
	}
	if err := mediator.RegisterHandler[*movieCmd.UpdateMovieCommand, *dto.MovieDTO](m,
		movieCmd.NewUpdateMovieHandler(deps.Movies, m, clock)); err != nil {
		return fmt.Errorf("failed to register UpdateMovie handler: %w", err)
	}
	if err := mediator.RegisterHandler[*movieCmd.DeleteMovieCommand, bool](m,
		movieCmd.NewDeleteMovieHandler(deps.Movies, m)); err != nil {
		return fmt.Errorf("failed to register DeleteMovie handler: %w", err)
	}
	if err := mediator.RegisterHandler[*movieCmd.SyncMoviesCommand, int](m,
		movieCmd.NewSyncMoviesHandler(deps.Movies, deps.Films, m, clock)); err != nil {
		return fmt.Errorf("failed to register SyncMovies handler: %w", err)
	}

	if err := mediator.RegisterHandler[*movieQuery.GetAllMoviesQuery, []*dto.MovieDTO](m,
		movieQuery.NewGetAllMoviesHandler(deps.Movies)); err != nil {
		return fmt.Errorf("failed to register GetAllMovies handler: %w", err)
	}
	if err := mediator.RegisterHandler[*movieQuery.GetMovieByIDQuery, *dto.MovieDTO](m,
		movieQuery.NewGetMovieByIDHandler(deps.Movies)); err != nil {
		return fmt.Errorf("failed to register GetMovieByID handler: %w", err)
	}
	if err := mediator.RegisterHandler[*movieQuery.GetMoviesByEpisodeQuery, []*dto.MovieDTO](m,
		movieQuery.NewGetMoviesByEpisodeHandler(deps.Movies)); err != nil {
		return fmt.Errorf("failed to register GetMoviesByEpisode handler: %w", err)
	}

	if deps.Users == nil {
		return nil
	}
	if err := mediator.RegisterHandler[*authCmd.RegisterUserCommand, *authCmd.AuthResponse](m,
		authCmd.NewRegisterUserHandler(deps.Users, deps.Hasher, deps.Tokens, clock)); err != nil {
		return fmt.Errorf("failed to register RegisterUser handler: %w", err)
	}
	if err := mediator.RegisterHandler[*authCmd.LoginCommand, *authCmd.AuthResponse](m,
		authCmd.NewLoginHandler(deps.Users, deps.Hasher, deps.Tokens)); err != nil {
		return fmt.Errorf("failed to register Login handler: %w", err)
	}
	return nil
}
