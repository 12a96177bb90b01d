package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/andrescamacho/starwars-movies-go/internal/application/auth"
	"github.com/andrescamacho/starwars-movies-go/internal/application/mediator"
	"github.com/andrescamacho/starwars-movies-go/internal/application/movie/commands"
	"github.com/andrescamacho/starwars-movies-go/internal/application/movie/dto"
	"github.com/andrescamacho/starwars-movies-go/internal/application/movie/queries"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/movie"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

// movieRequest is the wire body of create and update. The release date is a
// string so both "2006-01-02" and RFC 3339 are accepted.
type movieRequest struct {
	Title        string   `json:"title"`
	EpisodeID    int      `json:"episodeId"`
	OpeningCrawl string   `json:"openingCrawl"`
	Director     string   `json:"director"`
	Producer     string   `json:"producer"`
	ReleaseDate  string   `json:"releaseDate"`
	Characters   []string `json:"characters"`
	Planets      []string `json:"planets"`
	Starships    []string `json:"starships"`
	Vehicles     []string `json:"vehicles"`
	Species      []string `json:"species"`
}

type syncResponse struct {
	Message     string `json:"message"`
	SyncedCount int    `json:"syncedCount"`
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pageNumber, err := intParam(q.Get("pageNumber"), queries.DefaultPageNumber, "pageNumber")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	pageSize, err := intParam(q.Get("pageSize"), queries.DefaultPageSize, "pageSize")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	result, err := mediator.Send[[]*dto.MovieDTO](r.Context(), s.mediator, &queries.GetAllMoviesQuery{
		UserID:     principal.UserID,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		SearchTerm: strings.TrimSpace(q.Get("searchTerm")),
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	result, err := mediator.Send[*dto.MovieDTO](r.Context(), s.mediator, &queries.GetMovieByIDQuery{
		UserID:  principal.UserID,
		MovieID: id,
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleMoviesByEpisode(w http.ResponseWriter, r *http.Request) {
	episode, err := pathID(r, "episodeId")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	result, err := mediator.Send[[]*dto.MovieDTO](r.Context(), s.mediator, &queries.GetMoviesByEpisodeQuery{
		UserID:    principal.UserID,
		EpisodeID: episode,
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	payload, err := s.decodeMovie(w, r)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	created, err := mediator.Send[*dto.MovieDTO](r.Context(), s.mediator, &commands.CreateMovieCommand{
		UserID: principal.UserID,
		Movie:  payload,
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/movies/%d", created.ID))
	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	payload, err := s.decodeMovie(w, r)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	updated, err := mediator.Send[*dto.MovieDTO](r.Context(), s.mediator, &commands.UpdateMovieCommand{
		UserID:  principal.UserID,
		MovieID: id,
		Movie:   payload,
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	if updated == nil {
		s.respondErr(w, r, shared.NewNotFoundError(fmt.Sprintf("movie %d not found", id)))
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	deleted, err := mediator.Send[bool](r.Context(), s.mediator, &commands.DeleteMovieCommand{
		UserID:  principal.UserID,
		MovieID: id,
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	if !deleted {
		s.respondErr(w, r, shared.NewNotFoundError(fmt.Sprintf("movie %d not found", id)))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSyncMovies(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	count, err := mediator.Send[int](r.Context(), s.mediator, &commands.SyncMoviesCommand{UserID: principal.UserID})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, syncResponse{
		Message:     "Movies synchronized successfully",
		SyncedCount: count,
	})
}

func (s *Server) decodeMovie(w http.ResponseWriter, r *http.Request) (*dto.MoviePayload, error) {
	var req movieRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		return nil, err
	}

	payload := &dto.MoviePayload{
		Title:        strings.TrimSpace(req.Title),
		EpisodeID:    req.EpisodeID,
		OpeningCrawl: req.OpeningCrawl,
		Director:     strings.TrimSpace(req.Director),
		Producer:     strings.TrimSpace(req.Producer),
		Characters:   req.Characters,
		Planets:      req.Planets,
		Starships:    req.Starships,
		Vehicles:     req.Vehicles,
		Species:      req.Species,
	}

	problems := fieldErrors{}
	if req.ReleaseDate != "" {
		date, ok := movie.ParseReleaseDate(req.ReleaseDate)
		if !ok {
			problems["releaseDate"] = "must be a date (YYYY-MM-DD) or RFC 3339 timestamp"
		}
		payload.ReleaseDate = date
	}
	if err := s.validateStruct(payload); err != nil {
		var fe fieldErrors
		if !errors.As(err, &fe) {
			return nil, err
		}
		for field, msg := range fe {
			if _, exists := problems[field]; !exists {
				problems[field] = msg
			}
		}
	}
	if len(problems) > 0 {
		return nil, problems
	}
	return payload, nil
}

func pathID(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, shared.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}

func intParam(raw string, fallback int, name string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, shared.NewValidationError(name, "must be an integer")
	}
	return v, nil
}
