// Package service defines the backend-agnostic interface for to-do operations.
package service

import "context"

// Service defines the interface for the remote to-do service.
// All network calls go through this interface.
// The todolist client and commands never talk HTTP directly.
type Service interface {
	// ListTodos returns every task in server order.
	ListTodos(ctx context.Context) ([]Task, error)

	// SaveTodo creates a task and returns it with its server-assigned ID.
	SaveTodo(ctx context.Context, name string, completed bool) (Task, error)

	// UpdateTodo sets the completed flag of a task.
	// The returned task is informational only.
	UpdateTodo(ctx context.Context, id string, completed bool) (Task, error)

	// DeleteTodo deletes a task.
	DeleteTodo(ctx context.Context, id string) error
}
