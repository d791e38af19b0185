package todolist

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"todolist/internal/service"
)

// Options configures a Client.
type Options struct {
	// Logger receives success and failure logs. Nil discards.
	Logger *log.Logger

	// Alerter shows save/delete failures and the empty-input prompt. Nil drops them.
	Alerter Alerter

	// Reconcile rolls back optimistic changes whose request failed.
	// Off by default: the view keeps the optimistic state.
	Reconcile bool
}

type entry struct {
	task    Task
	pending int // in-flight update requests
	seq     int // last update request issued
	touched int // client version of the last local change
}

// Client is the to-do list: the visible collection plus its sync with the service.
type Client struct {
	svc       service.Service
	logger    *log.Logger
	alerter   Alerter
	reconcile bool

	mu      sync.Mutex
	entries []*entry
	byID    map[string]*entry

	// version counts local changes; loads compare against it to keep rows
	// changed while their request was in flight.
	version int
	loads   int
	removed map[string]int // id -> version, kept while a load is in flight

	inflight sync.WaitGroup
}

// New creates an empty list backed by svc.
func New(svc service.Service, opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	alerter := opts.Alerter
	if alerter == nil {
		alerter = AlerterFunc(func(string) {})
	}
	return &Client{
		svc:       svc,
		logger:    logger,
		alerter:   alerter,
		reconcile: opts.Reconcile,
		byID:      make(map[string]*entry),
	}
}

// LoadAll fetches every task and renders them in server order. Rows added,
// toggled or removed locally after the request was issued keep their local
// state; added rows the response does not know yet follow the loaded ones.
// On failure the view is left as it was and the error is logged.
func (c *Client) LoadAll(ctx context.Context) error {
	c.mu.Lock()
	start := c.version
	c.loads++
	c.mu.Unlock()

	todos, err := c.svc.ListTodos(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.endLoadLocked()

	if err != nil {
		c.logger.Error("Error fetching todos", "err", err)
		return err
	}
	c.mergeLocked(todos, start)
	c.logger.Debug("Todos loaded", "count", len(todos))
	return nil
}

func (c *Client) mergeLocked(todos []service.Task, start int) {
	entries := make([]*entry, 0, len(todos)+len(c.entries))
	byID := make(map[string]*entry, len(todos))

	for _, t := range todos {
		task := Task{ID: t.ID.String(), Text: t.Name, Completed: t.Completed}
		if task.ID != "" {
			if v, gone := c.removed[task.ID]; gone && v > start {
				continue
			}
			if _, dup := byID[task.ID]; dup {
				c.logger.Warn("Duplicate todo id", "id", task.ID)
				task.ID = ""
			}
		}

		e := c.byID[task.ID]
		switch {
		case task.ID == "" || e == nil:
			e = &entry{task: task}
		case e.pending > 0 || e.touched > start:
			// Local change newer than the response.
		default:
			e.task.Text = task.Text
			e.task.Completed = task.Completed
			e.task.State = Confirmed
		}
		entries = append(entries, e)
		if task.ID != "" {
			byID[task.ID] = e
		}
	}

	for _, e := range c.entries {
		if e.touched <= start {
			continue
		}
		if e.task.ID == "" {
			entries = append(entries, e)
			continue
		}
		if _, ok := byID[e.task.ID]; !ok {
			entries = append(entries, e)
			byID[e.task.ID] = e
		}
	}

	c.entries = entries
	c.byID = byID
}

func (c *Client) endLoadLocked() {
	c.loads--
	if c.loads == 0 {
		c.removed = nil
	}
}

// touchLocked records a local change to e.
func (c *Client) touchLocked(e *entry) {
	c.version++
	e.touched = c.version
}

// AddTask creates a task on the server and renders it once the server has
// assigned an id. Blank text prompts the user and makes no request.
// A failed create is alerted and nothing is rendered.
func (c *Client) AddTask(ctx context.Context, text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		c.alerter.Alert(PromptEmptyText)
		return Task{}, ErrEmptyText
	}

	saved, err := c.svc.SaveTodo(ctx, text, false)
	if err != nil {
		c.logger.Error("Error saving todo", "err", err)
		c.alerter.Alert(alertSaveFailed + errorMessage(err))
		return Task{}, err
	}
	c.logger.Info("Todo saved successfully", "id", saved.ID, "todoName", saved.Name)

	name := saved.Name
	if name == "" {
		name = text
	}
	task := Task{ID: saved.ID.String(), Text: name, Completed: saved.Completed}

	c.mu.Lock()
	task = c.appendLocked(task)
	c.mu.Unlock()
	return task, nil
}

// ToggleComplete flips the task's completed flag immediately and sends the
// new state to the server without waiting. The returned channel receives the
// single Outcome. Failures are logged only.
func (c *Client) ToggleComplete(ctx context.Context, id string) (<-chan Outcome, error) {
	if id == "" {
		return nil, ErrNoID
	}

	c.mu.Lock()
	e, ok := c.byID[id]
	if !ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrUnknownTask, id)
	}
	e.task.Completed = !e.task.Completed
	c.touchLocked(e)
	e.pending++
	e.seq++
	e.task.State = Pending
	completed, seq := e.task.Completed, e.seq
	c.mu.Unlock()

	return c.fire(func() Outcome {
		_, err := c.svc.UpdateTodo(context.WithoutCancel(ctx), id, completed)
		c.settleUpdate(id, completed, seq, err)
		return Outcome{Op: OpUpdate, TaskID: id, Completed: completed, Err: err}
	}), nil
}

// RemoveTask removes the task from the view immediately and asks the server
// to delete it without waiting. A failed delete is logged and alerted.
func (c *Client) RemoveTask(ctx context.Context, id string) (<-chan Outcome, error) {
	if id == "" {
		return nil, ErrNoID
	}

	c.mu.Lock()
	e, ok := c.byID[id]
	if !ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrUnknownTask, id)
	}
	index := c.indexLocked(e)
	c.entries = append(c.entries[:index], c.entries[index+1:]...)
	delete(c.byID, id)
	removed := e.task
	c.version++
	if c.loads > 0 {
		if c.removed == nil {
			c.removed = make(map[string]int)
		}
		c.removed[id] = c.version
	}
	c.mu.Unlock()

	return c.fire(func() Outcome {
		err := c.svc.DeleteTodo(context.WithoutCancel(ctx), id)
		c.settleDelete(removed, index, err)
		return Outcome{Op: OpDelete, TaskID: id, Completed: removed.Completed, Err: err}
	}), nil
}

// Counters returns the completed and total counts of the visible tasks.
func (c *Client) Counters() Counters {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n Counters
	for _, e := range c.entries {
		n.Total++
		if e.task.Completed {
			n.Completed++
		}
	}
	return n
}

// Snapshot returns the visible tasks in display order.
func (c *Client) Snapshot() []Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	tasks := make([]Task, len(c.entries))
	for i, e := range c.entries {
		tasks[i] = e.task
	}
	return tasks
}

// Get returns the visible task with the given id.
func (c *Client) Get(id string) (Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.byID[id]
	if !ok {
		return Task{}, false
	}
	return e.task, true
}

// Wait blocks until every fire-and-forget request has settled.
func (c *Client) Wait() {
	c.inflight.Wait()
}

// fire runs req in the background and delivers its outcome on the returned channel.
func (c *Client) fire(req func() Outcome) <-chan Outcome {
	ch := make(chan Outcome, 1)
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		ch <- req()
		close(ch)
	}()
	return ch
}

func (c *Client) settleUpdate(id string, completed bool, seq int, err error) {
	if err != nil {
		c.logger.Error("Error updating todo", "id", id, "completed", completed, "err", err)
	} else {
		c.logger.Info("Todo updated successfully", "id", id, "completed", completed)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.byID[id]
	if !ok {
		// Removed while the update was in flight.
		return
	}
	if e.pending > 0 {
		e.pending--
	}
	switch {
	case err != nil && seq == e.seq:
		if c.reconcile {
			e.task.Completed = !completed
			c.touchLocked(e)
		}
		e.task.State = Failed
	case e.pending == 0 && e.task.State == Pending:
		e.task.State = Confirmed
	}
}

func (c *Client) settleDelete(removed Task, index int, err error) {
	if err == nil {
		c.logger.Info("Todo deleted successfully", "id", removed.ID)
		return
	}
	c.logger.Error("Error deleting todo", "id", removed.ID, "err", err)
	c.alerter.Alert(alertDelFailed + errorMessage(err))

	if !c.reconcile {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.byID[removed.ID]; exists {
		return
	}
	if index > len(c.entries) {
		index = len(c.entries)
	}
	removed.State = Failed
	e := &entry{task: removed}
	c.touchLocked(e)
	delete(c.removed, removed.ID)
	c.entries = append(c.entries, nil)
	copy(c.entries[index+1:], c.entries[index:])
	c.entries[index] = e
	c.byID[removed.ID] = e
}

// appendLocked adds a row created by this client. A row whose id is already
// shown is kept without an id so it cannot shadow the first one.
func (c *Client) appendLocked(t Task) Task {
	if t.ID != "" {
		if _, dup := c.byID[t.ID]; dup {
			c.logger.Warn("Duplicate todo id", "id", t.ID)
			t.ID = ""
		}
	}
	e := &entry{task: t}
	c.touchLocked(e)
	c.entries = append(c.entries, e)
	if t.ID != "" {
		c.byID[t.ID] = e
	}
	return t
}

func (c *Client) indexLocked(e *entry) int {
	for i, x := range c.entries {
		if x == e {
			return i
		}
	}
	return -1
}
