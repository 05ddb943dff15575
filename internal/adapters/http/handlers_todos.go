package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/planbound/projects-service/internal/application"
)

func (h *Handler) addTodo(w http.ResponseWriter, r *http.Request) {
	var req application.AddTodoRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "add_todo", err)
		return
	}

	res, err := h.service.AddTodo(r.Context(), chi.URLParam(r, "project_id"), req)
	if err != nil {
		writeMappedError(r.Context(), w, "add_todo", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) getTodo(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.GetTodo(r.Context(), chi.URLParam(r, "project_id"), chi.URLParam(r, "todo_id"))
	if err != nil {
		writeMappedError(r.Context(), w, "get_todo", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) updateTodo(w http.ResponseWriter, r *http.Request) {
	var req application.UpdateTodoRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_todo", err)
		return
	}

	res, err := h.service.UpdateTodo(r.Context(), chi.URLParam(r, "project_id"), chi.URLParam(r, "todo_id"), req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_todo", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) removeTodo(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveTodo(r.Context(), chi.URLParam(r, "project_id"), chi.URLParam(r, "todo_id")); err != nil {
		writeMappedError(r.Context(), w, "remove_todo", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) startTodo(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.StartTodo(r.Context(), chi.URLParam(r, "project_id"), chi.URLParam(r, "todo_id"))
	if err != nil {
		writeMappedError(r.Context(), w, "start_todo", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) completeTodo(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.CompleteTodo(r.Context(), chi.URLParam(r, "project_id"), chi.URLParam(r, "todo_id"))
	if err != nil {
		writeMappedError(r.Context(), w, "complete_todo", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}
