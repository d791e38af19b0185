package commands_test

import (
	"bytes"
	"context"
	"flag"
	"io"
	"net"
	"strings"
	"testing"

	"todolist/internal/commands"
	"todolist/internal/config"
	"todolist/internal/exitcode"
)

func newServeCmd(t *testing.T, addr string) *commands.ServeCmd {
	t.Helper()
	cmd := &commands.ServeCmd{}
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	if err := fs.Parse([]string{"--addr", addr}); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestServeCommand_AddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	cmd := newServeCmd(t, ln.Addr().String())
	var stdout, stderr bytes.Buffer
	code := cmd.Run(context.Background(), &config.Config{Dir: t.TempDir()}, nil, nil, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr.String(), "error: ") {
		t.Errorf("expected error on stderr, got %q", stderr.String())
	}
}

func TestServeCommand_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := newServeCmd(t, "127.0.0.1:0")
	code := cmd.Run(ctx, &config.Config{Dir: t.TempDir()}, nil, nil, io.Discard, io.Discard)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
}

func TestServeCommand_UnexpectedArgument(t *testing.T) {
	cmd := newServeCmd(t, "127.0.0.1:0")
	var stdout, stderr bytes.Buffer
	code := cmd.Run(context.Background(), &config.Config{Dir: t.TempDir()}, nil, []string{"now"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr.String() != "error: unexpected argument: now\n" {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}
