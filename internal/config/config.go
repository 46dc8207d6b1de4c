// Package config resolves the configuration directory, the optional config
// file and the credential environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "goemon"

	// ConfigFile is the optional settings filename inside the config directory.
	ConfigFile = "config.yml"

	// TokenEnv holds the bearer credential.
	TokenEnv = "GOEMON_TOKEN"

	// EndpointEnv overrides the API origin.
	EndpointEnv = "GOEMON_ENDPOINT"

	// DefaultEndpoint is the API origin used when nothing overrides it.
	DefaultEndpoint = "https://goemon.cloud"
)

// ErrTokenMissing is returned when GOEMON_TOKEN is unset or empty.
var ErrTokenMissing = errors.New("environment variable " + TokenEnv + " missing")

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Endpoint is the API origin, without trailing slash.
	Endpoint string

	// Token is the bearer credential. Never written to disk.
	Token string

	// Verbose enables debug logging.
	Verbose bool

	// Quiet suppresses informational output.
	Quiet bool

	// Log receives diagnostics. Nil discards them.
	Log *slog.Logger
}

// fileSettings mirrors config.yml.
type fileSettings struct {
	Endpoint string `yaml:"endpoint"`
}

// New creates a Config rooted at configDir (or the XDG default when empty),
// applying config.yml and then the environment looked up through getenv.
func New(configDir string, getenv func(string) string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := &Config{Dir: dir, Endpoint: DefaultEndpoint}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}

	if ep := strings.TrimSpace(getenv(EndpointEnv)); ep != "" {
		cfg.Endpoint = ep
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	cfg.Token = strings.TrimSpace(getenv(TokenEnv))
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory
// ($XDG_CONFIG_HOME/goemon).
func DefaultConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// FilePath returns the path to config.yml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// RequireToken returns ErrTokenMissing if no credential is available.
func (c *Config) RequireToken() error {
	if c.Token == "" {
		return ErrTokenMissing
	}
	return nil
}

// Logger returns the configured logger, or one that discards everything.
func (c *Config) Logger() *slog.Logger {
	if c.Log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Log
}

// NewLogger builds the stderr logger used by the CLI.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

func (c *Config) loadFile() error {
	data, err := os.ReadFile(c.FilePath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", c.FilePath(), err)
	}

	var s fileSettings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	if s.Endpoint != "" {
		c.Endpoint = s.Endpoint
	}
	return nil
}
