package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Task represents a single to-do item as the remote service sees it.
type Task struct {
	ID        TaskID `json:"id,omitempty"`
	Name      string `json:"todoName"`
	Completed bool   `json:"completed"`
}

// TaskID is an opaque server-assigned identifier.
// The service may send it as a JSON number or a JSON string.
type TaskID string

// UnmarshalJSON accepts numbers, strings and null.
func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid task id: %s", data)
	}
	*id = TaskID(n.String())
	return nil
}

// MarshalJSON writes integer IDs back as numbers.
func (id TaskID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// String returns the raw identifier.
func (id TaskID) String() string { return string(id) }

// ErrMalformedResponse is returned when a success response body cannot be decoded.
var ErrMalformedResponse = errors.New("malformed response body")

// APIError is a non-success HTTP response from the remote service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}
