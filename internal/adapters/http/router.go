package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/planbound/projects-service/internal/application"
)

// Handler is the HTTP adapter entrypoint for project/todo use-cases.
// Keeping only the application dependency here preserves clean adapter boundaries.
type Handler struct {
	service *application.Service
}

// NewHandler constructs an HTTP handler bound to the application service.
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// NewRouter registers routes and the middleware stack.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/api/v1/projects", func(r chi.Router) {
		r.Post("/", handler.createProject)
		r.Get("/", handler.listProjects)
		r.Get("/{project_id}", handler.getProject)
		r.Put("/{project_id}", handler.updateProject)
		r.Delete("/{project_id}", handler.deleteProject)

		r.Route("/{project_id}/todos", func(r chi.Router) {
			r.Post("/", handler.addTodo)
			r.Get("/{todo_id}", handler.getTodo)
			r.Put("/{todo_id}", handler.updateTodo)
			r.Delete("/{todo_id}", handler.removeTodo)
			r.Patch("/{todo_id}/start", handler.startTodo)
			r.Patch("/{todo_id}/complete", handler.completeTodo)
		})
	})

	return r
}
