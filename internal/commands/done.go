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
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. It toggles, so running it twice
// reopens the task.
type DoneCmd struct{}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string   { return "Toggle a task's completed state" }
func (c *DoneCmd) Usage() string      { return "todolist done <ref>" }
func (c *DoneCmd) NeedsService() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runMutation(ctx, cfg, svc, args, out, errOut, func(list *todolist.Client, num int, task todolist.Task) (<-chan todolist.Outcome, error) {
		ch, err := list.ToggleComplete(ctx, task.ID)
		if err == nil && !cfg.Quiet {
			toggled, _ := list.Get(task.ID)
			output.FormatTask(out, num, toggled)
		}
		return ch, err
	})
}

// mutateFunc applies an optimistic change to the referenced task.
type mutateFunc func(list *todolist.Client, num int, task todolist.Task) (<-chan todolist.Outcome, error)

// runMutation is the shared implementation for done and rm: load, resolve
// the reference, apply the change, then wait for the request to settle
// before printing the counters.
func runMutation(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer, mutate mutateFunc) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	list := newList(cfg, svc, errOut)
	if err := list.LoadAll(ctx); err != nil {
		fmt.Fprintf(errOut, "error: backend error: %s\n", backendMessage(err))
		return exitcode.BackendError
	}

	task, num, err := resolveTaskRef(list.Snapshot(), ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	settled, err := mutate(list, num, task)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	outcome := <-settled
	list.Wait()

	if !cfg.Quiet {
		output.FormatCounters(out, list.Counters())
	}
	if outcome.Err != nil {
		return exitcode.BackendError
	}
	return exitcode.Success
}
