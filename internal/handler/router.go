package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskify/internal/metrics"
)

func NewRouter(h *TaskHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter() // Создаем роутер
	useMiddleware(r, logger)

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/stats", h.Stats)

	// HTML
	r.Get("/", h.Index)
	r.Get("/todo", h.AddForm)
	r.Post("/todo", h.Create)

	r.Route("/todos", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)

		r.Get("/{id}/edit", h.EditForm)
		r.Post("/update/{id}", h.UpdateForm)
		r.Post("/delete/{id}", h.DeleteForm)
	})

	return r
}

// useMiddleware installs the shared stack. Logging and metrics sit outside
// Recoverer so a recovered panic is still logged and counted as a 500.
func useMiddleware(r chi.Router, logger *zap.Logger) {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(metrics.Middleware)
	r.Use(middleware.Recoverer)
}
