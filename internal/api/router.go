package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/CharanSaiVaddi/jobboard-backend/internal/api/handler"
	mw "github.com/CharanSaiVaddi/jobboard-backend/internal/api/middleware"
)

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(jobs *handler.Jobs, log logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Logger(log))
	r.Use(mw.Recovery(log))

	r.Get("/api/v1/health", jobs.Health)

	r.Route("/api/v1/jobs", func(r chi.Router) {
		r.Get("/", jobs.List)
		r.Post("/", jobs.Create)
		r.Get("/{id}", jobs.Get)
		r.Put("/{id}", jobs.Update)
		r.Delete("/{id}", jobs.Delete)
		r.Post("/{id}/advance", jobs.Advance)
	})

	r.Post("/api/v1/drag", jobs.Drag)
	r.Get("/api/v1/board", jobs.Board)
	r.Put("/api/v1/search", jobs.SetSearch)

	return r
}
