package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todolist/internal/config"
	"todolist/internal/exitcode"
	"todolist/internal/output"
	"todolist/internal/service"
	"todolist/internal/todolist"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
type ListCmd struct {
	verbose bool
}

// SetVerbose sets verbose output (for testing).
func (c *ListCmd) SetVerbose(v bool) {
	c.verbose = v
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks and counters" }
func (c *ListCmd) Usage() string      { return "todolist list [--verbose]" }
func (c *ListCmd) NeedsService() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "verbose", false, "")
	fs.BoolVar(&c.verbose, "v", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	list := newList(cfg, svc, errOut)
	if err := list.LoadAll(ctx); err != nil {
		fmt.Fprintf(errOut, "error: backend error: %s\n", backendMessage(err))
		return exitcode.BackendError
	}

	tasks := list.Snapshot()
	if len(tasks) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	printTasks(out, tasks, c.verbose)
	output.FormatCounters(out, list.Counters())
	return exitcode.Success
}

func printTasks(out io.Writer, tasks []todolist.Task, verbose bool) {
	for i, task := range tasks {
		if verbose {
			output.FormatTaskVerbose(out, i+1, task)
		} else {
			output.FormatTask(out, i+1, task)
		}
	}
}
