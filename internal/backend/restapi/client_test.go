package restapi_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"todolist/internal/backend/restapi"
	"todolist/internal/config"
	"todolist/internal/devserver"
	"todolist/internal/logging"
	"todolist/internal/service"
)

func newDevClient(t *testing.T) (*restapi.Client, *devserver.Store) {
	t.Helper()
	store := devserver.NewStore()
	srv := httptest.NewServer(devserver.NewRouter(store, nil))
	t.Cleanup(srv.Close)

	c, err := restapi.NewWithHTTPClient(srv.URL+devserver.BasePath, srv.Client(), nil)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	return c, store
}

// recordingServer returns canned responses and records request lines.
type recordingServer struct {
	mu       sync.Mutex
	requests []string
	headers  []http.Header
	status   int
	body     string
}

func (s *recordingServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.RequestURI())
	s.headers = append(s.headers, r.Header.Clone())
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(s.status)
	w.Write([]byte(s.body))
}

func newCannedClient(t *testing.T, status int, body string) (*restapi.Client, *recordingServer) {
	t.Helper()
	rec := &recordingServer{status: status, body: body}
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)

	c, err := restapi.NewWithHTTPClient(srv.URL+"/api/v1/todo/", srv.Client(), nil)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	return c, rec
}

func TestNewWithHTTPClient_InvalidBaseURL(t *testing.T) {
	if _, err := restapi.NewWithHTTPClient("not a url", http.DefaultClient, nil); err == nil {
		t.Fatal("expected error for invalid base url")
	}
}

func TestRoundTrip_DevServer(t *testing.T) {
	c, store := newDevClient(t)
	ctx := context.Background()

	saved, err := c.SaveTodo(ctx, "buy milk", false)
	if err != nil {
		t.Fatalf("SaveTodo: %v", err)
	}
	if saved.ID != "1" || saved.Name != "buy milk" || saved.Completed {
		t.Errorf("saved = %+v", saved)
	}

	updated, err := c.UpdateTodo(ctx, "1", true)
	if err != nil {
		t.Fatalf("UpdateTodo: %v", err)
	}
	if !updated.Completed {
		t.Errorf("updated = %+v", updated)
	}

	todos, err := c.ListTodos(ctx)
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if len(todos) != 1 || !todos[0].Completed {
		t.Errorf("todos = %+v", todos)
	}

	if err := c.DeleteTodo(ctx, "1"); err != nil {
		t.Fatalf("DeleteTodo: %v", err)
	}
	if len(store.All()) != 0 {
		t.Error("store should be empty after delete")
	}
}

func TestRequestPaths(t *testing.T) {
	c, rec := newCannedClient(t, http.StatusOK, `{"id":1,"todoName":"x","completed":true}`)
	ctx := context.Background()

	c.UpdateTodo(ctx, "1", true)
	c.DeleteTodo(ctx, "1")
	c.SaveTodo(ctx, "x", false)

	want := []string{
		"PUT /api/v1/todo/update/1?completed=true",
		"DELETE /api/v1/todo/delete/1",
		"POST /api/v1/todo/save",
	}
	if len(rec.requests) != len(want) {
		t.Fatalf("requests = %v", rec.requests)
	}
	for i := range want {
		if rec.requests[i] != want[i] {
			t.Errorf("request %d = %q, want %q", i, rec.requests[i], want[i])
		}
		if rec.headers[i].Get(restapi.RequestIDHeader) == "" {
			t.Errorf("request %d missing %s", i, restapi.RequestIDHeader)
		}
	}
}

func TestListTodos_StringIDs(t *testing.T) {
	c, _ := newCannedClient(t, http.StatusOK, `[{"id":"a1b2","todoName":"buy milk","completed":false},{"todoName":"no id"}]`)

	todos, err := c.ListTodos(context.Background())
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("len = %d", len(todos))
	}
	if todos[0].ID != "a1b2" {
		t.Errorf("id = %q", todos[0].ID)
	}
	if todos[1].ID != "" {
		t.Errorf("missing id should stay empty, got %q", todos[1].ID)
	}
}

func TestListTodos_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"object instead of array", `{"todoName":"x"}`},
		{"missing name", `[{"id":1,"completed":false}]`},
		{"wrong completed type", `[{"id":1,"todoName":"x","completed":"yes"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newCannedClient(t, http.StatusOK, tt.body)
			_, err := c.ListTodos(context.Background())
			if !errors.Is(err, service.ErrMalformedResponse) {
				t.Errorf("err = %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		call    func(*restapi.Client) error
		wantMsg string
	}{
		{
			name:    "save with server message",
			body:    `{"message":"Todo name too long"}`,
			call:    func(c *restapi.Client) error { _, err := c.SaveTodo(context.Background(), "x", false); return err },
			wantMsg: "Todo name too long",
		},
		{
			name:    "save fallback",
			body:    `Internal Server Error`,
			call:    func(c *restapi.Client) error { _, err := c.SaveTodo(context.Background(), "x", false); return err },
			wantMsg: "Failed to save todo",
		},
		{
			name:    "delete fallback on empty message",
			body:    `{"message":""}`,
			call:    func(c *restapi.Client) error { return c.DeleteTodo(context.Background(), "1") },
			wantMsg: "Failed to delete todo",
		},
		{
			name:    "list fallback",
			body:    ``,
			call:    func(c *restapi.Client) error { _, err := c.ListTodos(context.Background()); return err },
			wantMsg: "Failed to fetch todos",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newCannedClient(t, http.StatusInternalServerError, tt.body)
			err := tt.call(c)

			var apiErr *service.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want *service.APIError", err)
			}
			if apiErr.Status != http.StatusInternalServerError {
				t.Errorf("status = %d", apiErr.Status)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestUpdateTodo_NonObjectBody(t *testing.T) {
	c, _ := newCannedClient(t, http.StatusOK, `"updated"`)
	if _, err := c.UpdateTodo(context.Background(), "1", true); err != nil {
		t.Errorf("valid non-object JSON should be accepted, got %v", err)
	}

	c, _ = newCannedClient(t, http.StatusOK, `updated`)
	if _, err := c.UpdateTodo(context.Background(), "1", true); !errors.Is(err, service.ErrMalformedResponse) {
		t.Errorf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{BaseURL: srv.URL, Timeout: config.Duration{Duration: 50 * time.Millisecond}}
	c, err := restapi.New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = c.ListTodos(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("err = %q, want timed out message", err)
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := restapi.NewWithHTTPClient(url, http.DefaultClient, nil)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	_, err = c.ListTodos(context.Background())
	if err == nil || !strings.Contains(err.Error(), "network error") {
		t.Errorf("err = %v, want network error", err)
	}
}

func TestSetLogger_LogsRequests(t *testing.T) {
	c, _ := newCannedClient(t, http.StatusOK, `[]`)
	var buf bytes.Buffer
	c.SetLogger(logging.NewTest(&buf))

	if _, err := c.ListTodos(context.Background()); err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	logs := buf.String()
	for _, want := range []string{"msg=request", "msg=response", "path=/getall", "status=200"} {
		if !strings.Contains(logs, want) {
			t.Errorf("logs missing %q:\n%s", want, logs)
		}
	}
}
