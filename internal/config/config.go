package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/joacominatel/alertsnap/internal/profile"
)

// File names inside the config directory.
const (
	ConnectionsFile = "connections.json"
	QueriesFile     = "queries.json"
	LogsDir         = "logs"
)

// Secret store kinds.
const (
	SecretStoreFile    = "file"
	SecretStoreKeyring = "keyring"
)

// Config represents the application configuration.
type Config struct {
	Preferences Preferences `mapstructure:"preferences" yaml:"preferences"`
	Logging     Logging     `mapstructure:"logging" yaml:"logging"`

	dir string
}

// Preferences holds user preferences.
type Preferences struct {
	Theme             string        `mapstructure:"theme" yaml:"theme"`
	DefaultConnection string        `mapstructure:"default_connection" yaml:"default_connection"`
	SecretStore       string        `mapstructure:"secret_store" yaml:"secret_store"`
	ConnectTimeout    time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"`
}

// Logging controls the log files.
type Logging struct {
	Level         string `mapstructure:"level" yaml:"level"`
	RetentionDays int    `mapstructure:"retention_days" yaml:"retention_days"`
}

// Dir returns the directory the configuration was loaded from.
func (c *Config) Dir() string {
	return c.dir
}

// ConnectionsPath returns the connection profiles file.
func (c *Config) ConnectionsPath() string {
	return filepath.Join(c.dir, ConnectionsFile)
}

// QueriesPath returns the saved queries file.
func (c *Config) QueriesPath() string {
	return filepath.Join(c.dir, QueriesFile)
}

// LogDir returns the directory holding the daily log files.
func (c *Config) LogDir() string {
	return filepath.Join(c.dir, LogsDir)
}

// Secrets returns the password storage selected by preferences.secret_store.
func (c *Config) Secrets() profile.Secrets {
	if strings.EqualFold(c.Preferences.SecretStore, SecretStoreKeyring) {
		return profile.KeyringSecrets{}
	}

	return profile.FileSecrets{}
}

// DefaultConnection returns the preferred profile, or the first one.
// It returns false when there are no profiles.
func DefaultConnection(cfg *Config, profiles []profile.Profile) (profile.Profile, bool) {
	if len(profiles) == 0 {
		return profile.Profile{}, false
	}

	if cfg.Preferences.DefaultConnection != "" {
		for _, p := range profiles {
			if p.Name == cfg.Preferences.DefaultConnection {
				return p, true
			}
		}
	}

	return profiles[0], true
}

// Keys lists the settings accepted by Get and Set.
var Keys = []string{
	"preferences.theme",
	"preferences.default_connection",
	"preferences.secret_store",
	"preferences.connect_timeout",
	"logging.level",
	"logging.retention_days",
}

// Get returns a setting in its textual form.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "preferences.theme":
		return c.Preferences.Theme, nil
	case "preferences.default_connection":
		return c.Preferences.DefaultConnection, nil
	case "preferences.secret_store":
		return c.Preferences.SecretStore, nil
	case "preferences.connect_timeout":
		return c.Preferences.ConnectTimeout.String(), nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.retention_days":
		return strconv.Itoa(c.Logging.RetentionDays), nil
	default:
		return "", fmt.Errorf("unknown key %q", key)
	}
}

// Set validates and changes one setting. Nothing is written until Save.
func (c *Config) Set(key string, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case "preferences.theme":
		if value != "dark" && value != "light" {
			return fmt.Errorf("invalid theme %q (dark|light)", value)
		}
		c.Preferences.Theme = value
	case "preferences.default_connection":
		c.Preferences.DefaultConnection = value
	case "preferences.secret_store":
		if value != SecretStoreFile && value != SecretStoreKeyring {
			return fmt.Errorf("invalid secret store %q (%s|%s)", value, SecretStoreFile, SecretStoreKeyring)
		}
		c.Preferences.SecretStore = value
	case "preferences.connect_timeout":
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid connect timeout %q", value)
		}
		c.Preferences.ConnectTimeout = d
	case "logging.level":
		_, err := logrus.ParseLevel(value)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", value, err)
		}
		c.Logging.Level = value
	case "logging.retention_days":
		days, err := strconv.Atoi(value)
		if err != nil || days < 1 {
			return fmt.Errorf("invalid retention %q (at least 1 day)", value)
		}
		c.Logging.RetentionDays = days
	default:
		return fmt.Errorf("unknown key %q", key)
	}

	return nil
}
