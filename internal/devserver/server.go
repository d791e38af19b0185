// Package devserver serves the to-do HTTP API from memory for local development.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"todolist/internal/service"
)

// BasePath is where the API is mounted, matching config.DefaultBaseURL.
const BasePath = "/api/v1/todo"

// Server is the development to-do API server.
type Server struct {
	httpServer *http.Server
	store      *Store
	logger     *log.Logger
}

// NewServer creates a server listening on addr once started.
func NewServer(store *Store, addr string, logger *log.Logger) *Server {
	s := &Server{
		store:  store,
		logger: logger,
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           NewRouter(store, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// NewRouter builds the chi router serving the API under BasePath.
func NewRouter(store *Store, logger *log.Logger) http.Handler {
	h := &handlers{store: store}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	if logger != nil {
		r.Use(requestLogger(logger))
	}

	r.Route(BasePath, func(r chi.Router) {
		r.Get("/getall", h.getAll)
		r.Post("/save", h.save)
		r.Put("/update/{id}", h.update)
		r.Delete("/delete/{id}", h.delete)
	})
	return r
}

// Start begins listening. It blocks until the server is stopped.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.logger.Info("dev server listening", "addr", ln.Addr().String(), "base", BasePath)
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type handlers struct {
	store *Store
}

func (h *handlers) getAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.All())
}

func (h *handlers) save(w http.ResponseWriter, r *http.Request) {
	var req service.Task
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "todoName is required")
		return
	}
	writeJSON(w, http.StatusOK, h.store.Save(name, req.Completed))
}

func (h *handlers) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	completed, err := strconv.ParseBool(r.URL.Query().Get("completed"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "completed must be true or false")
		return
	}
	t, err := h.store.SetCompleted(id, completed)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Todo not found with id: %s", id))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handlers) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(id); err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Todo not found with id: %s", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
