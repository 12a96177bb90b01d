package httpserver

import (
	"net/http"

	"github.com/andrescamacho/starwars-movies-go/internal/application/auth/commands"
	"github.com/andrescamacho/starwars-movies-go/internal/application/mediator"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var cmd commands.RegisterUserCommand
	if err := decodeJSONBody(w, r, &cmd); err != nil {
		s.respondErr(w, r, err)
		return
	}
	if err := s.validateStruct(&cmd); err != nil {
		s.respondErr(w, r, err)
		return
	}

	result, err := mediator.Send[*commands.AuthResponse](r.Context(), s.mediator, &cmd)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var cmd commands.LoginCommand
	if err := decodeJSONBody(w, r, &cmd); err != nil {
		s.respondErr(w, r, err)
		return
	}

	result, err := mediator.Send[*commands.AuthResponse](r.Context(), s.mediator, &cmd)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}
