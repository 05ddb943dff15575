package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/planbound/projects-service/internal/domain"
)

type ctxKey string

const ctxKeyRequestID ctxKey = "request_id"

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpLogger().ErrorContext(r.Context(), "panic recovered",
					"operation", "http_panic_recovery",
					"outcome", "failure",
					"request_id", requestIDFromContext(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
				)
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(payload []byte) (int, error) {
	if r.statusCode == 0 {
		r.statusCode = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(payload)
	r.bytes += n
	return n, err
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		httpLogger().InfoContext(r.Context(), "http request handled",
			"operation", "http_request",
			"outcome", "success",
			"request_id", requestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", rec.statusCode,
			"bytes", rec.bytes,
			"duration_ms", time.Since(started).Milliseconds(),
		)
	})
}

func requestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// mapDomainError translates domain errors into status codes the way the
// upstream API contract defines them: missing resources are 404, the
// duplicate-project-name conflict is 409, every other domain rule
// violation is a 400 with a distinguishing code.
func mapDomainError(err error) (int, string, string) {
	var removal *domain.TodoRemovalNotAllowedError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case errors.Is(err, domain.ErrProjectNotFound):
		return http.StatusNotFound, "PROJECT_NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrTodoDependencyNotFound):
		return http.StatusBadRequest, "DEPENDENCY_NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrTodoNotFound):
		return http.StatusNotFound, "TODO_NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "CONFLICT", err.Error()
	case errors.Is(err, domain.ErrDuplicateTodoTitle):
		return http.StatusBadRequest, "DUPLICATE_TODO_TITLE", err.Error()
	case errors.Is(err, domain.ErrTooManyTodos):
		return http.StatusBadRequest, "TOO_MANY_TODOS", err.Error()
	case errors.Is(err, domain.ErrTooManyDependencies):
		return http.StatusBadRequest, "TOO_MANY_DEPENDENCIES", err.Error()
	case errors.Is(err, domain.ErrSelfDependency):
		return http.StatusBadRequest, "SELF_DEPENDENCY", err.Error()
	case errors.Is(err, domain.ErrCircularDependency):
		return http.StatusBadRequest, "CIRCULAR_DEPENDENCY", err.Error()
	case errors.Is(err, domain.ErrTodoAlreadyStarted):
		return http.StatusBadRequest, "TODO_ALREADY_STARTED", err.Error()
	case errors.Is(err, domain.ErrTodoAlreadyCompleted):
		return http.StatusBadRequest, "TODO_ALREADY_COMPLETED", err.Error()
	case errors.Is(err, domain.ErrTodoNotStarted):
		return http.StatusBadRequest, "TODO_NOT_STARTED", err.Error()
	case errors.Is(err, domain.ErrTodoDependencyNotCompleted):
		return http.StatusBadRequest, "DEPENDENCIES_NOT_COMPLETED", err.Error()
	case errors.As(err, &removal):
		return http.StatusBadRequest, "TODO_REMOVAL_NOT_ALLOWED", removal.Error()
	case errors.Is(err, domain.ErrProjectDeletionNotAllowed):
		return http.StatusBadRequest, "PROJECT_DELETION_NOT_ALLOWED", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}
