package e2e

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"result-service/internal/app"
	"result-service/internal/app/middleware"
	"result-service/internal/db"
	"result-service/internal/handler"
	"result-service/internal/repository"
	"result-service/internal/service/note"
	"result-service/internal/validation"
)

func TestHTTPE2E(t *testing.T) {
	s := newTestServer(t)
	defer s.Close()

	// Missing identity
	var msg string
	s.doJSON(http.MethodPost, "/notes", "", map[string]any{"title": "groceries"}, http.StatusUnauthorized, &msg)
	if msg != "missing user identity" {
		t.Fatalf("unexpected unauthorized message %q", msg)
	}

	// Schema rejection
	var invalid string
	s.doJSON(http.MethodPost, "/notes", "alice", map[string]any{"title": ""}, http.StatusBadRequest, &invalid)
	if invalid == "" {
		t.Fatalf("expected validation message")
	}

	// Bodies that are not a single JSON value fitting the request type
	var rejected string
	s.doRaw(http.MethodPost, "/notes", "alice", `{"title":"a"} trailing`, http.StatusBadRequest, &rejected)
	if rejected != "request body must hold a single JSON value" {
		t.Fatalf("unexpected trailing data message %q", rejected)
	}
	s.doRaw(http.MethodPost, "/notes", "alice", `{"title":"a"}{"title":"b"}`, http.StatusBadRequest, &rejected)
	if rejected != "request body must hold a single JSON value" {
		t.Fatalf("unexpected second value message %q", rejected)
	}
	s.doRaw(http.MethodPut, "/notes/x", "alice", `{"title":"a","version":99999999999999999999}`, http.StatusBadRequest, &rejected)
	if !strings.Contains(rejected, "cannot be stored as int") {
		t.Fatalf("unexpected out of range message %q", rejected)
	}

	var created noteResponse
	s.doJSON(http.MethodPost, "/notes", "alice", map[string]any{
		"title": "groceries",
		"body":  "milk, eggs",
		"tags":  []string{"home"},
	}, http.StatusOK, &created)
	if created.NoteID == "" || created.OwnerID != "alice" || created.Version != 1 {
		t.Fatalf("unexpected created note %+v", created)
	}
	notePath := "/notes/" + created.NoteID

	s.doJSON(http.MethodPost, "/notes", "alice", map[string]any{"title": "groceries"}, http.StatusConflict, &msg)
	if msg != "note with this title already exists" {
		t.Fatalf("unexpected conflict message %q", msg)
	}

	var fetched noteResponse
	s.doJSON(http.MethodGet, notePath, "alice", nil, http.StatusOK, &fetched)
	if fetched.Title != "groceries" || len(fetched.Tags) != 1 {
		t.Fatalf("unexpected fetched note %+v", fetched)
	}

	// Another user gets 403 with no body
	body := s.do(http.MethodGet, notePath, "bob", nil, http.StatusForbidden)
	if len(body) != 0 {
		t.Fatalf("expected empty forbidden body, got %q", body)
	}

	s.doJSON(http.MethodGet, "/notes/missing", "alice", nil, http.StatusNotFound, &msg)
	if msg != "note not found" {
		t.Fatalf("unexpected not found message %q", msg)
	}

	var updated noteResponse
	s.doJSON(http.MethodPut, notePath, "alice", map[string]any{
		"title":   "groceries",
		"body":    "milk, eggs, bread",
		"version": 1,
	}, http.StatusOK, &updated)
	if updated.Version != 2 || updated.Body != "milk, eggs, bread" {
		t.Fatalf("unexpected updated note %+v", updated)
	}

	s.doJSON(http.MethodPut, notePath, "alice", map[string]any{
		"title":   "groceries",
		"version": 1,
	}, http.StatusConflict, &msg)
	if msg != "note was modified by another request" {
		t.Fatalf("unexpected stale version message %q", msg)
	}

	var list []noteResponse
	s.doJSON(http.MethodGet, "/notes", "alice", nil, http.StatusOK, &list)
	if len(list) != 1 {
		t.Fatalf("expected 1 note, got %d", len(list))
	}

	body = s.do(http.MethodPost, notePath+"/share", "alice", map[string]any{"user_id": "bob"}, http.StatusNotImplemented)
	if len(body) != 0 {
		t.Fatalf("expected empty unsupported body, got %q", body)
	}

	var archived noteResponse
	s.doJSON(http.MethodPost, notePath+"/archive", "alice", nil, http.StatusOK, &archived)
	if !archived.Archived {
		t.Fatalf("expected archived note")
	}
	s.doJSON(http.MethodPost, notePath+"/archive", "alice", nil, http.StatusBadRequest, &msg)
	if msg != "note is archived" {
		t.Fatalf("unexpected archived message %q", msg)
	}

	body = s.do(http.MethodDelete, notePath, "alice", nil, http.StatusOK)
	if len(body) != 0 {
		t.Fatalf("expected empty delete body, got %q", body)
	}
	s.do(http.MethodGet, notePath, "alice", nil, http.StatusNotFound)

	var schemas []string
	s.doJSON(http.MethodGet, "/schemas", "", nil, http.StatusOK, &schemas)
	if len(schemas) != 3 {
		t.Fatalf("expected 3 schemas, got %v", schemas)
	}
	s.do(http.MethodGet, "/schemas/"+handler.SchemaCreateNote, "", nil, http.StatusOK)
	s.do(http.MethodGet, "/schemas/unknown", "", nil, http.StatusNotFound)

	var health map[string]any
	s.doJSON(http.MethodGet, "/health", "", nil, http.StatusOK, &health)
	if health["status"] != "ok" {
		t.Fatalf("unexpected health payload %v", health)
	}

	metricsBody := s.do(http.MethodGet, "/metrics", "", nil, http.StatusOK)
	if !bytes.Contains(metricsBody, []byte("result_responses_total")) {
		t.Fatalf("expected responses counter in metrics output")
	}
}

func TestHTTPE2E_Faults(t *testing.T) {
	log := zap.NewNop()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /panic", func(http.ResponseWriter, *http.Request) {
		panic(errors.New("disk full"))
	})
	mux.HandleFunc("GET /ok", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("queued"))
	})

	var h http.Handler = mux
	h = middleware.Recovery(log)(h)
	h = middleware.Logging(log)(h)
	h = middleware.RequestID()(h)

	server := httptest.NewServer(h)
	defer server.Close()
	s := &testServer{t: t, server: server, client: server.Client(), base: server.URL}

	var fault struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	s.doJSON(http.MethodGet, "/panic", "", nil, http.StatusInternalServerError, &fault)
	if fault.Status != "Failure" || fault.Message != "disk full" {
		t.Fatalf("unexpected fault body %+v", fault)
	}

	body := s.do(http.MethodGet, "/ok", "", nil, http.StatusAccepted)
	if string(body) != "queued" {
		t.Fatalf("expected pass-through body, got %q", body)
	}
}

type testServer struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
	base   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := zap.NewNop()

	validator := validation.NewSchemaValidator()
	if err := handler.RegisterSchemas(validator); err != nil {
		t.Fatalf("failed to register schemas: %v", err)
	}

	noteService := note.NewService(repository.NewMemoryNoteRepository(), db.NoopTransactor{})

	router := app.NewRouter(app.Handlers{
		Notes:  handler.NewNoteHandler(noteService, validator, true, log),
		Health: handler.NewHealthHandler(log),
		Docs:   handler.NewDocsHandler(validator, log),
	}, log)

	server := httptest.NewServer(router)

	return &testServer{
		t:      t,
		server: server,
		client: server.Client(),
		base:   server.URL,
	}
}

func (s *testServer) Close() {
	s.server.Close()
}

// do sends body as JSON on behalf of user (omitted when empty) and returns
// the raw response body
func (s *testServer) do(method, path, user string, body any, expectedStatus int) []byte {
	s.t.Helper()

	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			s.t.Fatalf("failed to marshal request body: %v", err)
		}
	}
	return s.send(method, path, user, data, expectedStatus)
}

// doRaw sends body verbatim and decodes the JSON response into out
func (s *testServer) doRaw(method, path, user, body string, expectedStatus int, out any) {
	s.t.Helper()

	respBody := s.send(method, path, user, []byte(body), expectedStatus)
	if err := json.Unmarshal(respBody, out); err != nil {
		s.t.Fatalf("failed to decode response %q: %v", respBody, err)
	}
}

func (s *testServer) send(method, path, user string, body []byte, expectedStatus int) []byte {
	s.t.Helper()

	var buf io.Reader
	if body != nil {
		buf = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, s.base+path, buf)
	if err != nil {
		s.t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(handler.UserIDHeader, user)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		s.t.Fatalf("failed to read response: %v", err)
	}

	if resp.StatusCode != expectedStatus {
		s.t.Fatalf("%s %s: expected status %d, got %d: %s", method, path, expectedStatus, resp.StatusCode, string(respBody))
	}
	return respBody
}

func (s *testServer) doJSON(method, path, user string, body any, expectedStatus int, out any) {
	s.t.Helper()

	respBody := s.do(method, path, user, body, expectedStatus)
	if err := json.Unmarshal(respBody, out); err != nil {
		s.t.Fatalf("failed to decode response %q: %v", respBody, err)
	}
}

type noteResponse struct {
	NoteID   string   `json:"note_id"`
	OwnerID  string   `json:"owner_id"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Tags     []string `json:"tags"`
	Archived bool     `json:"archived"`
	Version  int      `json:"version"`
}
