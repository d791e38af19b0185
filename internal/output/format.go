// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todolist/internal/todolist"
)

// FormatTask formats a task row.
// Format: "{N:>4}  [x] {TEXT}\n" (4-wide right-aligned number, two spaces, check box, text)
func FormatTask(w io.Writer, num int, task todolist.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, checkBox(task.Completed), NormalizeText(task.Text))
}

// FormatTaskVerbose formats a task row followed by its id and sync state.
// Tasks without an id show "-".
func FormatTaskVerbose(w io.Writer, num int, task todolist.Task) {
	id := task.ID
	if id == "" {
		id = "-"
	}
	fmt.Fprintf(w, "%4d  %s %s  (id: %s, %s)\n", num, checkBox(task.Completed), NormalizeText(task.Text), id, task.State)
}

// FormatCounters formats the completed/total line.
func FormatCounters(w io.Writer, c todolist.Counters) {
	fmt.Fprintln(w, CountersLine(c))
}

// CountersLine returns the completed/total text shown under the list.
func CountersLine(c todolist.Counters) string {
	return fmt.Sprintf("completed: %d / total: %d", c.Completed, c.Total)
}

func checkBox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// NormalizeText normalizes a task text for display.
// - Empty or whitespace-only texts become "(untitled)"
// - Newlines are replaced with spaces
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
