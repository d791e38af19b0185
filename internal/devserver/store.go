package devserver

import (
	"errors"
	"strconv"
	"sync"

	"todolist/internal/service"
)

// ErrNotFound is returned for unknown task ids.
var ErrNotFound = errors.New("not found")

// Store is an in-memory, insertion-ordered task table with sequential ids.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	order  []string
	tasks  map[string]service.Task
}

// NewStore creates an empty store. The first id handed out is 1.
func NewStore() *Store {
	return &Store{
		nextID: 1,
		tasks:  make(map[string]service.Task),
	}
}

// All returns every task in insertion order.
func (s *Store) All() []service.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]service.Task, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.tasks[id])
	}
	return result
}

// Save assigns an id and appends the task.
func (s *Store) Save(name string, completed bool) service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strconv.FormatInt(s.nextID, 10)
	s.nextID++
	t := service.Task{ID: service.TaskID(id), Name: name, Completed: completed}
	s.tasks[id] = t
	s.order = append(s.order, id)
	return t
}

// SetCompleted updates the completed flag of a task.
func (s *Store) SetCompleted(id string, completed bool) (service.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return service.Task{}, ErrNotFound
	}
	t.Completed = completed
	s.tasks[id] = t
	return t, nil
}

// Delete removes a task.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
