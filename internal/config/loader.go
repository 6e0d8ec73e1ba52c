package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	appName    = "alertsnap"
	envPrefix  = "ALERTSNAP"
	configFile = "config"
	configType = "yaml"
	envFile    = ".env"
)

// EnvConfigDir overrides the config directory.
const EnvConfigDir = envPrefix + "_CONFIG_DIR"

// Dir returns the config directory: $ALERTSNAP_CONFIG_DIR when set, otherwise
// an "alertsnap" directory under the user config dir.
func Dir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(base, appName), nil
}

func newViper(dir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(configFile)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("preferences.theme", "dark")
	v.SetDefault("preferences.default_connection", "")
	v.SetDefault("preferences.secret_store", SecretStoreFile)
	v.SetDefault("preferences.connect_timeout", "10s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.retention_days", 2)

	return v
}

// Load reads <dir>/config.yaml, creating dir if needed. A missing file yields
// the defaults. Values can be overridden from the environment, and a .env file
// in dir is loaded first.
func Load(dir string) (*Config, error) {
	err := os.MkdirAll(dir, 0o700)
	if err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	err = godotenv.Load(filepath.Join(dir, envFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", envFile, err)
	}

	v := newViper(dir)

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{dir: dir}
	err = v.Unmarshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Logging.RetentionDays < 1 {
		cfg.Logging.RetentionDays = 1
	}

	return cfg, nil
}

// Save writes the configuration to <dir>/config.yaml.
func Save(cfg *Config) error {
	if cfg.dir == "" {
		return errors.New("config has no directory")
	}

	err := os.MkdirAll(cfg.dir, 0o700)
	if err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.Set("preferences.theme", cfg.Preferences.Theme)
	v.Set("preferences.default_connection", cfg.Preferences.DefaultConnection)
	v.Set("preferences.secret_store", cfg.Preferences.SecretStore)
	v.Set("preferences.connect_timeout", cfg.Preferences.ConnectTimeout.String())
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("logging.retention_days", cfg.Logging.RetentionDays)

	path := filepath.Join(cfg.dir, configFile+"."+configType)
	return v.WriteConfigAs(path)
}
