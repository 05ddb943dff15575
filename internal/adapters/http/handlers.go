package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/planbound/projects-service/internal/application"
)

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	var req application.CreateProjectRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_project", err)
		return
	}

	res, err := h.service.CreateProject(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_project", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), 0)

	res, err := h.service.ListProjects(r.Context(), limit)
	if err != nil {
		writeMappedError(r.Context(), w, "list_projects", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) getProject(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.GetProject(r.Context(), chi.URLParam(r, "project_id"))
	if err != nil {
		writeMappedError(r.Context(), w, "get_project", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) updateProject(w http.ResponseWriter, r *http.Request) {
	var req application.UpdateProjectRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_project", err)
		return
	}

	res, err := h.service.UpdateProject(r.Context(), chi.URLParam(r, "project_id"), req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_project", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProject(r.Context(), chi.URLParam(r, "project_id")); err != nil {
		writeMappedError(r.Context(), w, "delete_project", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

func parseIntDefault(raw string, fallback int) int {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func writeMappedError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	status, code, msg := mapDomainError(err)
	logHTTPOperationError(ctx, operation, status, code, msg, err)
	writeError(w, status, code, msg)
}

func writeValidationError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	code := "VALIDATION_ERROR"
	msg := err.Error()
	logHTTPOperationError(ctx, operation, http.StatusBadRequest, code, msg, err)
	writeError(w, http.StatusBadRequest, code, msg)
}
