// Package config handles the XDG configuration directory, file paths and
// environment settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	// AppName is the application directory name.
	AppName = "taskdeck"

	// SessionKey is the storage key holding the session credential.
	SessionKey = "access-token"

	// SessionFile is the stored session credential filename.
	SessionFile = SessionKey + ".json"

	// EnvFile is the optional dotenv file read from the config directory.
	EnvFile = ".env"
)

// Authentication mechanisms understood by the route selector.
const (
	EmailBasedAuthentication       = "EMAIL_BASED_AUTHENTICATION"
	PhoneNumberBasedAuthentication = "PHONE_NUMBER_BASED_AUTHENTICATION"
)

// Session storage backends.
const (
	SessionBackendFile  = "file"
	SessionBackendRedis = "redis"
)

// Settings holds values read from the environment.
type Settings struct {
	APIHost        string        `env:"TASKDECK_API_HOST" envDefault:"http://localhost:8080"`
	AuthMechanism  string        `env:"TASKDECK_AUTH_MECHANISM" envDefault:"EMAIL_BASED_AUTHENTICATION"`
	RequestTimeout time.Duration `env:"TASKDECK_REQUEST_TIMEOUT" envDefault:"10s"`
	SessionBackend string        `env:"TASKDECK_SESSION_BACKEND" envDefault:"file"`
	RedisAddr      string        `env:"TASKDECK_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword  string        `env:"TASKDECK_REDIS_PASSWORD"`
	RedisDB        int           `env:"TASKDECK_REDIS_DB" envDefault:"0"`
	RedisPrefix    string        `env:"TASKDECK_REDIS_PREFIX" envDefault:"taskdeck:"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	Settings Settings

	// Logger is never nil once the dispatcher has run.
	Logger *zap.Logger
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskdeck or $HOME/.config/taskdeck.
// Settings are parsed from the environment after loading <dir>/.env, if present.
// Variables already set in the environment win over the dotenv file.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir, Logger: zap.NewNop()}

	if _, err := os.Stat(cfg.EnvPath()); err == nil {
		if err := godotenv.Load(cfg.EnvPath()); err != nil {
			return nil, fmt.Errorf("load %s: %w", EnvFile, err)
		}
	}

	if err := env.Parse(&cfg.Settings); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Settings.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		APIHost:        "http://localhost:8080",
		AuthMechanism:  EmailBasedAuthentication,
		RequestTimeout: 10 * time.Second,
		SessionBackend: SessionBackendFile,
		RedisAddr:      "localhost:6379",
		RedisPrefix:    "taskdeck:",
	}
}

func (s Settings) validate() error {
	switch s.AuthMechanism {
	case EmailBasedAuthentication, PhoneNumberBasedAuthentication:
	default:
		return fmt.Errorf("invalid TASKDECK_AUTH_MECHANISM: %s", s.AuthMechanism)
	}
	switch s.SessionBackend {
	case SessionBackendFile, SessionBackendRedis:
	default:
		return fmt.Errorf("invalid TASKDECK_SESSION_BACKEND: %s", s.SessionBackend)
	}
	if s.RequestTimeout <= 0 {
		return fmt.Errorf("invalid TASKDECK_REQUEST_TIMEOUT: %s", s.RequestTimeout)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SessionPath returns the path to the stored session credential file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// EnvPath returns the path to the optional dotenv file.
func (c *Config) EnvPath() string {
	return filepath.Join(c.Dir, EnvFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// APIURL returns the API base URL: the configured host with the /api suffix.
func (c *Config) APIURL() string {
	host := c.Settings.APIHost
	for len(host) > 0 && host[len(host)-1] == '/' {
		host = host[:len(host)-1]
	}
	return host + "/api"
}

// UsePhoneAuth reports whether OTP/phone login is the configured mechanism.
func (c *Config) UsePhoneAuth() bool {
	return c.Settings.AuthMechanism == PhoneNumberBasedAuthentication
}
