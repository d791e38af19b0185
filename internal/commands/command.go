// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"todolist/internal/config"
	"todolist/internal/logging"
	"todolist/internal/service"
	"todolist/internal/todolist"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsService returns true if the command talks to the remote service.
	// Commands like help, version and serve return false.
	NeedsService() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided.
	// svc is nil if NeedsService() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}

// newLogger returns the console logger for a one-shot command.
func newLogger(cfg *config.Config, errOut io.Writer) *log.Logger {
	return logging.NewFromConfig(errOut, cfg.EffectiveLogLevel(), cfg.LogFormat)
}

// newList builds the to-do list client for a one-shot command.
// Alerts go to errOut as "error: <msg>" lines.
func newList(cfg *config.Config, svc service.Service, errOut io.Writer) *todolist.Client {
	return todolist.New(svc, todolist.Options{
		Logger: newLogger(cfg, errOut),
		Alerter: todolist.AlerterFunc(func(msg string) {
			fmt.Fprintf(errOut, "error: %s\n", msg)
		}),
		Reconcile: cfg.Reconcile,
	})
}

// backendMessage returns the user-facing text of a service error.
func backendMessage(err error) string {
	var apiErr *service.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
