package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig wires the handlers into the HTTP surface.
type RouterConfig struct {
	Base           *Handler
	Contacts       *ContactHandler
	MetricsHandler http.Handler
}

// NewRouter builds the chi router for the API.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(Recoverer)
	r.Use(SecurityHeaders)
	r.Use(cfg.Base.CORS)

	r.NotFound(cfg.Base.NotFound)
	r.Get("/", cfg.Base.Root)
	r.Get("/api/health", cfg.Base.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/contacts", func(r chi.Router) {
		r.Get("/", cfg.Contacts.List)
		r.Post("/", cfg.Contacts.Create)
		r.Delete("/{id}", cfg.Contacts.Delete)
	})

	return r
}
