package api

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// NewRouter builds the Chi router. The health endpoint is unauthenticated;
// the search routes require bearer auth. Rate limiting is global: 60
// requests per minute per IP.
func NewRouter(handlers *Handlers, token string, store cachePinger, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(httprate.LimitByIP(60, time.Minute))

	r.Get("/api/v1/health", HealthHandlerFunc(store, log))

	r.Group(func(r chi.Router) {
		r.Use(bearerAuth(token))
		r.Post("/api/v1/flights/search", handlers.SearchFlights)
		r.Post("/api/v1/flights/search/compact", handlers.SearchFlightsCompact)
	})

	return r
}

// bearerAuth validates the Authorization: Bearer <token> header with a
// constant-time comparison.
func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			provided := strings.TrimPrefix(auth, "Bearer ")

			if !strings.HasPrefix(auth, "Bearer ") ||
				subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
