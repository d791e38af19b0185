// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"todolist/internal/service"
)

// ErrNotFound is returned when a task id is unknown.
var ErrNotFound = errors.New("not found")

// Request records one call made to the FakeService.
type Request struct {
	Method    string // "list", "save", "update", "delete"
	ID        string
	Name      string
	Completed bool
}

// String formats the request the way the HTTP backend would send it.
func (r Request) String() string {
	switch r.Method {
	case "list":
		return "GET /getall"
	case "save":
		return fmt.Sprintf("POST /save %q completed=%t", r.Name, r.Completed)
	case "update":
		return fmt.Sprintf("PUT /update/%s?completed=%t", r.ID, r.Completed)
	case "delete":
		return "DELETE /delete/" + r.ID
	}
	return r.Method
}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu       sync.Mutex
	tasks    []service.Task
	nextID   int
	requests []Request

	// Error injection for testing
	ListErr   error
	SaveErr   error
	UpdateErr error
	DeleteErr error

	// Gate, when non-nil, holds UpdateTodo and DeleteTodo until a value is
	// received from it (or it is closed), so tests can observe in-flight state.
	Gate chan struct{}

	// ListGate, when non-nil, holds ListTodos after it has taken its
	// snapshot of the tasks, like a response still on the wire.
	ListGate chan struct{}
}

// NewFakeService creates an empty FakeService. The first saved id is 1.
func NewFakeService() *FakeService {
	return &FakeService{nextID: 1}
}

// AddTask seeds a task with an explicit id.
func (f *FakeService) AddTask(id, name string, completed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{ID: service.TaskID(id), Name: name, Completed: completed})
}

// Tasks returns the server-side tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result
}

// Requests returns every call made so far, in order.
func (f *FakeService) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]Request, len(f.requests))
	copy(result, f.requests)
	return result
}

// SetDeleteErr changes DeleteErr while requests may be in flight.
func (f *FakeService) SetDeleteErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteErr = err
}

// SetUpdateErr changes UpdateErr while requests may be in flight.
func (f *FakeService) SetUpdateErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateErr = err
}

func (f *FakeService) record(r Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r)
}

func (f *FakeService) wait(ctx context.Context) error {
	return waitGate(ctx, f.Gate)
}

func waitGate(ctx context.Context, gate chan struct{}) error {
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ListTodos implements service.Service.
func (f *FakeService) ListTodos(ctx context.Context) ([]service.Task, error) {
	tasks := f.Tasks()
	f.record(Request{Method: "list"})
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	if err := waitGate(ctx, f.ListGate); err != nil {
		return nil, err
	}
	return tasks, nil
}

// SaveTodo implements service.Service.
func (f *FakeService) SaveTodo(ctx context.Context, name string, completed bool) (service.Task, error) {
	f.record(Request{Method: "save", Name: name, Completed: completed})
	if f.SaveErr != nil {
		return service.Task{}, f.SaveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	t := service.Task{ID: service.TaskID(strconv.Itoa(f.nextID)), Name: name, Completed: completed}
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t, nil
}

// UpdateTodo implements service.Service.
func (f *FakeService) UpdateTodo(ctx context.Context, id string, completed bool) (service.Task, error) {
	f.record(Request{Method: "update", ID: id, Completed: completed})
	if err := f.wait(ctx); err != nil {
		return service.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.UpdateErr != nil {
		return service.Task{}, f.UpdateErr
	}
	for i, t := range f.tasks {
		if string(t.ID) == id {
			f.tasks[i].Completed = completed
			return f.tasks[i], nil
		}
	}
	return service.Task{}, ErrNotFound
}

// DeleteTodo implements service.Service.
func (f *FakeService) DeleteTodo(ctx context.Context, id string) error {
	f.record(Request{Method: "delete", ID: id})
	if err := f.wait(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.DeleteErr != nil {
		return f.DeleteErr
	}

	for i, t := range f.tasks {
		if string(t.ID) == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
