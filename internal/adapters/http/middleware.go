package httpserver

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/andrescamacho/starwars-movies-go/internal/application/auth"
	"github.com/andrescamacho/starwars-movies-go/internal/application/logging"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/user"
)

const (
	roleAdministrator = user.RoleAdministrator
	roleRegularUser   = user.RoleRegularUser
)

// requestLogger puts a request-scoped logger into the context and logs each
// request once it completes.
func requestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			logger := base.With("request_id", middleware.GetReqID(r.Context()))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(logging.WithLogger(r.Context(), logger)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(r.Context(), level, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				logging.Duration(time.Since(start)),
			)
		})
	}
}

// authenticate requires a valid bearer token and stores the caller in the context
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			s.respondErr(w, r, shared.NewUnauthorizedError("missing bearer token"))
			return
		}

		principal, err := s.verifier.Verify(token)
		if err != nil {
			s.respondErr(w, r, err)
			return
		}

		ctx := auth.WithPrincipal(r.Context(), principal)
		ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With(logging.UserID(principal.UserID)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole admits callers holding at least one of roles
func requireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				writeError(w, r, shared.NewUnauthorizedError("authentication required"))
				return
			}
			if !principal.HasAnyRole(roles...) {
				writeError(w, r, shared.NewForbiddenError("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
