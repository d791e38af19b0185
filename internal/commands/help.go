package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todolist/internal/config"
	"todolist/internal/exitcode"
	"todolist/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "todolist help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, usageText)
	fmt.Fprintln(out, "\nCommands:")
	for _, cmd := range DefaultRegistry.All() {
		name := cmd.Name()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			name += " (" + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(out, "  %-18s %s\n", name, cmd.Synopsis())
	}
	fmt.Fprint(out, refsText)
	return exitcode.Success
}

const usageText = `Usage:
  todolist [command] [common flags] [args]

  With no command, opens the interactive list on a terminal and
  prints the list otherwise.
`

const refsText = `
Task references:
  <n>     Position as printed by list (1-based)
  @<id>   Server id

Common flags:
  --config <dir>      Override config directory
  --base-url <url>    Override the remote service URL
  --quiet             Suppress informational output
  --debug             Print debug logs to stderr

Command flags:
  list --verbose      Show ids and sync state
  serve --addr        Listen address (default localhost:8080)
`
