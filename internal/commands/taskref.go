package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"todolist/internal/todolist"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num int    // 1-based position in the list, 0 when ID is set
	ID  string // server id from an "@<id>" reference
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args.
//
// Accepted forms:
//  1. All digits (e.g. 3) → position in the list as printed by `list`
//  2. "@" followed by a non-empty id (e.g. @42, @a1b2) → server id
//
// Anything else, or extra arguments, is an invalid reference.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", strings.Join(args, " "))
	}

	arg := args[0]
	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Num: num}, nil
	}

	if id, ok := strings.CutPrefix(arg, "@"); ok && strings.TrimSpace(id) != "" {
		return TaskRef{ID: id}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
}

// String formats the reference the way the user typed it.
func (r TaskRef) String() string {
	if r.ID != "" {
		return "@" + r.ID
	}
	return strconv.Itoa(r.Num)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// resolveTaskRef finds the referenced task among the visible tasks.
func resolveTaskRef(tasks []todolist.Task, ref TaskRef) (todolist.Task, int, error) {
	if ref.ID != "" {
		for i, t := range tasks {
			if t.ID == ref.ID {
				return t, i + 1, nil
			}
		}
		return todolist.Task{}, 0, fmt.Errorf("task not found: %s", ref)
	}

	if ref.Num < 1 || ref.Num > len(tasks) {
		return todolist.Task{}, 0, fmt.Errorf("task number out of range: %d", ref.Num)
	}
	t := tasks[ref.Num-1]
	if !t.HasID() {
		return todolist.Task{}, 0, fmt.Errorf("task has no id yet: %d", ref.Num)
	}
	return t, ref.Num, nil
}
