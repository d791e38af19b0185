package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todolist/internal/config"
	"todolist/internal/output"
	"todolist/internal/service"
	"todolist/internal/todolist"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"remove"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "todolist rm <ref>" }
func (c *RmCmd) NeedsService() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runMutation(ctx, cfg, svc, args, out, errOut, func(list *todolist.Client, num int, task todolist.Task) (<-chan todolist.Outcome, error) {
		ch, err := list.RemoveTask(ctx, task.ID)
		if err == nil && !cfg.Quiet {
			fmt.Fprintf(out, "removed: %s\n", output.NormalizeText(task.Text))
		}
		return ch, err
	})
}
