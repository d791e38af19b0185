// Package config handles the XDG configuration directory and config.toml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"todolist/internal/logging"
)

const (
	// AppName is the application directory name.
	AppName = "todolist"

	// ConfigFile is the optional TOML config filename.
	ConfigFile = "config.toml"

	// DefaultBaseURL is the remote to-do service root.
	DefaultBaseURL = "http://localhost:8080/api/v1/todo"

	// DefaultLogLevel is used when neither file, env nor flags set a level.
	DefaultLogLevel = "warn"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `toml:"-"`

	// BaseURL is the remote service root, without trailing slash.
	BaseURL string `toml:"base_url"`

	// Timeout bounds each request. Zero leaves it to the transport.
	Timeout Duration `toml:"timeout"`

	// Reconcile restores optimistic changes when their request fails.
	Reconcile bool `toml:"reconcile"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// LogFormat is one of text, json, logfmt.
	LogFormat string `toml:"log_format"`

	// Debug enables debug logging.
	Debug bool `toml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `toml:"-"`
}

// Duration is a time.Duration that decodes from a TOML string like "5s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// New creates a Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todolist or $HOME/.config/todolist.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:      dir,
		BaseURL:  DefaultBaseURL,
		LogLevel: DefaultLogLevel,
	}, nil
}

// Load creates a Config and applies config.toml and environment overrides.
// A missing config file is not an error.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if err := logging.ValidateLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log_level: %w", err)
	}
	if err := logging.ValidateFormat(cfg.LogFormat); err != nil {
		return nil, fmt.Errorf("invalid log_format: %w", err)
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to config.toml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// EffectiveLogLevel returns the level after --debug is taken into account.
func (c *Config) EffectiveLogLevel() string {
	if c.Debug {
		return "debug"
	}
	if c.LogLevel == "" {
		return DefaultLogLevel
	}
	return c.LogLevel
}

func (c *Config) loadFile() error {
	md, err := toml.DecodeFile(c.FilePath(), c)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("invalid %s: unknown key %q", ConfigFile, undecoded[0].String())
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TODOLIST_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("TODOLIST_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}
