// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, empty text, unknown ref).
	UserError = 1

	// ConfigError indicates an unreadable or invalid config.toml.
	ConfigError = 2

	// BackendError indicates a remote service, network or response error.
	BackendError = 3
)
