package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/planbound/projects-service/internal/adapters/memory"
	"github.com/planbound/projects-service/internal/application"
)

type httpFixture struct {
	store  *memory.Store
	router http.Handler
}

func newHTTPFixture() *httpFixture {
	store := memory.NewStore()
	handler := NewHandler(application.NewService(store))
	return &httpFixture{store: store, router: NewRouter(handler)}
}

func (f *httpFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	if envelope.Status != "success" {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, dst); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiError {
	t.Helper()
	var out apiError
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode error body: %v (body %s)", err, rec.Body.String())
	}
	return out
}

func (f *httpFixture) createProject(t *testing.T, name string) application.ProjectResponse {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/projects", map[string]string{"name": name})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var res application.ProjectResponse
	decodeData(t, rec, &res)
	return res
}

func (f *httpFixture) addTodo(t *testing.T, projectID, title string) application.TodoResponse {
	t.Helper()
	rec := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%s/todos", projectID), map[string]string{"title": title})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add todo status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var res application.TodoResponse
	decodeData(t, rec, &res)
	return res
}

func TestProjectCRUDOverHTTP(t *testing.T) {
	t.Parallel()

	f := newHTTPFixture()
	project := f.createProject(t, "launch")

	rec := f.do(t, http.MethodGet, "/api/v1/projects/"+project.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = f.do(t, http.MethodPut, "/api/v1/projects/"+project.ID, map[string]string{"name": "relaunch"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var updated application.ProjectResponse
	decodeData(t, rec, &updated)
	if updated.Name != "relaunch" {
		t.Fatalf("name = %s", updated.Name)
	}

	rec = f.do(t, http.MethodDelete, "/api/v1/projects/"+project.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/api/v1/projects/"+project.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", rec.Code)
	}
	if decodeError(t, rec).Code != "PROJECT_NOT_FOUND" {
		t.Fatalf("error code = %s", decodeError(t, rec).Code)
	}
}

func TestDomainRuleViolationsMapToBadRequest(t *testing.T) {
	t.Parallel()

	f := newHTTPFixture()
	project := f.createProject(t, "launch")
	a := f.addTodo(t, project.ID, "a")
	f.addTodo(t, project.ID, "a-dup-check")

	rec := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%s/todos", project.ID), map[string]string{"title": "a"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate title status = %d", rec.Code)
	}
	if decodeError(t, rec).Code != "DUPLICATE_TODO_TITLE" {
		t.Fatalf("error code = %s", decodeError(t, rec).Code)
	}

	rec = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%s/todos", project.ID), map[string]any{
		"title":        "b",
		"dependencies": []string{"00000000-0000-0000-0000-000000000001"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown dependency status = %d", rec.Code)
	}
	if decodeError(t, rec).Code != "DEPENDENCY_NOT_FOUND" {
		t.Fatalf("error code = %s", decodeError(t, rec).Code)
	}

	rec = f.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/projects/%s/todos/%s/complete", project.ID, a.ID), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("complete before start status = %d", rec.Code)
	}
	if decodeError(t, rec).Code != "TODO_NOT_STARTED" {
		t.Fatalf("error code = %s", decodeError(t, rec).Code)
	}
}

func TestTodoLifecycleOverHTTP(t *testing.T) {
	t.Parallel()

	f := newHTTPFixture()
	project := f.createProject(t, "launch")
	todo := f.addTodo(t, project.ID, "design")

	rec := f.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/projects/%s/todos/%s/start", project.ID, todo.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var started application.TodoResponse
	decodeData(t, rec, &started)
	if started.Status != "in_progress" {
		t.Fatalf("status = %s", started.Status)
	}

	rec = f.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/projects/%s/todos/%s/complete", project.ID, todo.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete status = %d", rec.Code)
	}
	var completed application.TodoResponse
	decodeData(t, rec, &completed)
	if completed.Status != "completed" || completed.CompletedAt == nil {
		t.Fatalf("completed todo = %+v", completed)
	}
}

func TestMalformedRequestsRejected(t *testing.T) {
	t.Parallel()

	f := newHTTPFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", bytes.NewBufferString(`{"name": "x", "bogus": true}`))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown field status = %d", rec.Code)
	}
	if decodeError(t, rec).Code != "VALIDATION_ERROR" {
		t.Fatalf("error code = %s", decodeError(t, rec).Code)
	}

	rec2 := f.do(t, http.MethodGet, "/api/v1/projects/not-a-uuid", nil)
	if rec2.Code != http.StatusBadRequest {
		t.Fatalf("bad uuid status = %d", rec2.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	f := newHTTPFixture()
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := f.do(t, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
	}
}

func TestRequestIDPropagation(t *testing.T) {
	t.Parallel()

	f := newHTTPFixture()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != "req-123" {
		t.Fatalf("request id = %q", got)
	}

	rec2 := httptest.NewRecorder()
	f.router.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec2.Header().Get("X-Request-Id") == "" {
		t.Fatalf("request id should be generated when absent")
	}
}
