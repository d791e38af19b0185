// Package restapi implements the service.Service interface over the to-do HTTP API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"todolist/internal/config"
	"todolist/internal/service"
)

const (
	// RequestIDHeader carries a per-request id for log correlation.
	RequestIDHeader = "X-Request-Id"

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 1 << 20
)

// Fallback messages used when a failed response carries no message.
const (
	msgFetchFailed  = "Failed to fetch todos"
	msgSaveFailed   = "Failed to save todo"
	msgUpdateFailed = "Failed to update todo"
	msgDeleteFailed = "Failed to delete todo"
)

// Client implements service.Service against the remote to-do API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *log.Logger
	schemas    *schemas
}

// New creates a client from config.
// cfg.Timeout of zero means no client-side timeout.
func New(cfg *config.Config, logger *log.Logger) (*Client, error) {
	c, err := NewWithHTTPClient(cfg.BaseURL, http.DefaultClient, logger)
	if err != nil {
		return nil, err
	}
	c.timeout = cfg.Timeout.Duration
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, logger *log.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url: %q", baseURL)
	}
	s, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
		schemas:    s,
	}, nil
}

// SetLogger replaces the request logger. Must be called before the client
// is shared between goroutines.
func (c *Client) SetLogger(logger *log.Logger) {
	c.logger = logger
}

// ListTodos fetches every task in server order.
func (c *Client) ListTodos(ctx context.Context) ([]service.Task, error) {
	body, err := c.do(ctx, http.MethodGet, "/getall", nil, msgFetchFailed)
	if err != nil {
		return nil, err
	}

	var todos []service.Task
	if err := decodeValidated(body, c.schemas.list, &todos); err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrMalformedResponse, err)
	}
	return todos, nil
}

// SaveTodo creates a task and returns it with its server-assigned ID.
func (c *Client) SaveTodo(ctx context.Context, name string, completed bool) (service.Task, error) {
	payload, err := json.Marshal(service.Task{Name: name, Completed: completed})
	if err != nil {
		return service.Task{}, err
	}

	body, err := c.do(ctx, http.MethodPost, "/save", payload, msgSaveFailed)
	if err != nil {
		return service.Task{}, err
	}

	var saved service.Task
	if err := decodeValidated(body, c.schemas.todo, &saved); err != nil {
		return service.Task{}, fmt.Errorf("%w: %v", service.ErrMalformedResponse, err)
	}
	return saved, nil
}

// UpdateTodo sets the completed flag of a task.
// The response only needs to be valid JSON; its fields are best effort.
func (c *Client) UpdateTodo(ctx context.Context, id string, completed bool) (service.Task, error) {
	path := "/update/" + url.PathEscape(id) + "?completed=" + strconv.FormatBool(completed)
	body, err := c.do(ctx, http.MethodPut, path, nil, msgUpdateFailed)
	if err != nil {
		return service.Task{}, err
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return service.Task{}, fmt.Errorf("%w: %v", service.ErrMalformedResponse, err)
	}
	var updated service.Task
	if _, ok := doc.(map[string]any); ok {
		_ = json.Unmarshal(body, &updated)
	}
	return updated, nil
}

// DeleteTodo deletes a task. A success body is ignored.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/delete/"+url.PathEscape(id), nil, msgDeleteFailed)
	return err
}

// do performs one request and returns the success body.
// Non-2xx responses become *service.APIError carrying the server's message
// or fallback.
func (c *Client) do(ctx context.Context, method, path string, payload []byte, fallback string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if payload != nil || method == http.MethodPut {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("request", "method", method, "path", path, "request_id", reqID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, wrapError(err)
	}

	c.logger.Debug("response", "method", method, "path", path, "status", resp.StatusCode, "request_id", reqID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &service.APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(body, fallback),
		}
	}
	return body, nil
}

// errorMessage extracts {"message": "..."} from an error body.
func errorMessage(body []byte, fallback string) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return fallback
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	return fallback
}

// wrapError wraps transport errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("request canceled: %w", err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("network error: %w", urlErr.Err)
	}
	return err
}
