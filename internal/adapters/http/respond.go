package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/starwars-movies-go/internal/application/logging"
	"github.com/andrescamacho/starwars-movies-go/internal/application/mediator"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// fieldErrors is a payload validation failure reported per field
type fieldErrors map[string]string

func (f fieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for field, msg := range f {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

func (f fieldErrors) Is(target error) bool {
	return target == shared.ErrInvalidInput
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Server) validateStruct(v interface{}) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return shared.NewInvalidInputError(err.Error())
	}
	out := fieldErrors{}
	for _, fe := range validationErrs {
		out[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "email":
		return "must be a valid email address"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var typeError *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxError):
			return shared.NewInvalidInputError("malformed JSON payload")
		case errors.As(err, &typeError):
			return shared.NewValidationError(typeError.Field, "has an invalid type")
		case errors.Is(err, io.EOF):
			return shared.NewInvalidInputError("request body cannot be empty")
		default:
			return shared.NewInvalidInputError("unable to parse request body: " + err.Error())
		}
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Error("failed to encode response", logging.Error(err))
		}
	}
}

func (s *Server) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, err)
}

// statusFor maps an error kind to its HTTP status
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, shared.ErrConflict):
		return http.StatusConflict, "CONFLICT"
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, shared.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, shared.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, mediator.ErrNoHandlerFound):
		return http.StatusNotImplemented, "NOT_IMPLEMENTED"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	resp := errorResponse{Code: code, Message: messageFor(err, status)}

	var fields fieldErrors
	var single *shared.ValidationError
	switch {
	case errors.As(err, &fields):
		resp.Message = "one or more fields are invalid"
		resp.Errors = fields
	case errors.As(err, &single):
		resp.Errors = map[string]string{single.Field: single.Message}
	}

	logger := logging.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", logging.Error(err))
	} else {
		logger.Debug("request rejected", slog.Int("status", status), logging.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// messageFor hides internal failure details from the caller
func messageFor(err error, status int) string {
	if status >= http.StatusInternalServerError {
		return "an unexpected error occurred"
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}
