package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	apperrors "github.com/vytor/lexiflash/internal/errors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   s.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Get("/me", s.handleMe)
	})

	r.Route("/collections", func(r chi.Router) {
		r.Get("/", s.handleCollections)
		r.Get("/pinned", s.handlePinned)
		r.Put("/pinned/{id}", s.handlePin)
		r.Delete("/pinned/{id}", s.handleUnpin)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleStartSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleEndSession)
			r.Post("/cards", s.handleAnswerCard)
			r.Get("/exercise", s.handleGetExercise)
			r.Post("/exercise", s.handleAnswerExercise)
		})
	})

	r.Get("/outbox", s.handleOutboxStats)
	r.Post("/outbox/flush", s.handleFlushOutbox)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, apperrors.NewNotFoundError("route", r.URL.Path))
	})
	return r
}
