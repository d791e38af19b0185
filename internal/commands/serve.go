package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"todolist/internal/config"
	"todolist/internal/devserver"
	"todolist/internal/exitcode"
	"todolist/internal/logging"
	"todolist/internal/service"
)

const shutdownTimeout = 5 * time.Second

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command.
type ServeCmd struct {
	addr string
}

func (c *ServeCmd) Name() string       { return "serve" }
func (c *ServeCmd) Aliases() []string  { return nil }
func (c *ServeCmd) Synopsis() string   { return "Run a local in-memory to-do API" }
func (c *ServeCmd) Usage() string      { return "todolist serve [--addr <host:port>]" }
func (c *ServeCmd) NeedsService() bool { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "localhost:8080", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	// Request logs are the point of the dev server, so info is the floor.
	level := "info"
	if cfg.Debug {
		level = "debug"
	}
	logger := logging.NewFromConfig(errOut, level, cfg.LogFormat)
	srv := devserver.NewServer(devserver.NewStore(), c.addr, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return exitcode.Success
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(errOut, "error: shutdown: %v\n", err)
			return exitcode.UserError
		}
		return exitcode.Success
	}
}
