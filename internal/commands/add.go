package commands

import (
	"context"
	"errors"
	"flag"
	"io"
	"strings"

	"todolist/internal/config"
	"todolist/internal/exitcode"
	"todolist/internal/output"
	"todolist/internal/service"
	"todolist/internal/todolist"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "todolist add <text...>" }
func (c *AddCmd) NeedsService() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	list := newList(cfg, svc, errOut)

	// Blank input is rejected before anything touches the network.
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		list.AddTask(ctx, text)
		return exitcode.UserError
	}

	// The create does not depend on the load. A failed load is logged and
	// the new row is numbered after whatever did load.
	_ = list.LoadAll(ctx)

	task, err := list.AddTask(ctx, text)
	if err != nil {
		if errors.Is(err, todolist.ErrEmptyText) {
			return exitcode.UserError
		}
		// The alert has already been written to errOut.
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		output.FormatTask(out, len(list.Snapshot()), task)
		output.FormatCounters(out, list.Counters())
	}
	return exitcode.Success
}
