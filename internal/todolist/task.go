// Package todolist keeps the visible to-do list in sync with the remote service.
//
// A Client owns a keyed, insertion-ordered collection of tasks. User actions
// change that collection first and then talk to the service: toggles and
// removals are optimistic and fire-and-forget, adds and the initial load wait
// for the server. Counters are computed from the collection on every read.
package todolist

import (
	"errors"

	"todolist/internal/service"
)

var (
	// ErrEmptyText is returned by AddTask for blank input. No request is made.
	ErrEmptyText = errors.New("task text is empty")

	// ErrNoID is returned when a task has no server-assigned id yet.
	ErrNoID = errors.New("task has no id")

	// ErrUnknownTask is returned when no visible task has the given id.
	ErrUnknownTask = errors.New("unknown task")
)

// User-facing alert texts.
const (
	PromptEmptyText = "Please enter a task!"
	alertSaveFailed = "Failed to save the task: "
	alertDelFailed  = "Failed to delete the task: "
)

// SyncState tells whether the visible state of a task is known to the server.
type SyncState int

const (
	// Confirmed means no request for the task is in flight or failed.
	Confirmed SyncState = iota
	// Pending means at least one update request is in flight.
	Pending
	// Failed means the most recent request for the task failed.
	Failed
)

func (s SyncState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Failed:
		return "failed"
	default:
		return "confirmed"
	}
}

// Task is one visible to-do item.
type Task struct {
	ID        string
	Text      string
	Completed bool
	State     SyncState
}

// HasID reports whether the task can be completed or removed.
func (t Task) HasID() bool { return t.ID != "" }

// Counters are the completed and total task counts.
type Counters struct {
	Completed int
	Total     int
}

// Op names the request an Outcome reports on.
type Op string

const (
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Outcome reports how a fire-and-forget request settled.
type Outcome struct {
	Op        Op
	TaskID    string
	Completed bool
	Err       error
}

// Alerter shows a blocking message to the user.
// Implementations must be safe for concurrent use.
type Alerter interface {
	Alert(msg string)
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(msg string)

// Alert calls f(msg).
func (f AlerterFunc) Alert(msg string) { f(msg) }

// errorMessage returns the best message for showing err to a user.
func errorMessage(err error) string {
	var apiErr *service.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
