// Package config loads the application configuration from an optional YAML
// file, with environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"

	appDirName = "tidytask"
)

var ErrUnknownDriver = errors.New("config: unknown storage driver")

type StorageConfig struct {
	// Driver selects the slot backend: "sqlite" or "file".
	Driver string `yaml:"driver"`
	// Path is the database file (sqlite) or state directory (file).
	// Empty means the per-user default location.
	Path string `yaml:"path"`
}

type Config struct {
	Storage       StorageConfig `yaml:"storage"`
	SettleDelayMS int           `yaml:"settle_delay_ms"`
}

func Default() Config {
	return Config{
		Storage:       StorageConfig{Driver: DriverSQLite},
		SettleDelayMS: 200,
	}
}

// Load reads path if it exists; a missing file yields defaults. A present
// but unreadable file is an error, unlike corrupt task state: the user
// explicitly wrote it and should hear about mistakes.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv applies TIDYTASK_* environment overrides on top of base.
func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnvString("TIDYTASK_STORE_DRIVER"); ok {
		cfg.Storage.Driver = v
	}
	if v, ok := getEnvString("TIDYTASK_STORE_PATH"); ok {
		cfg.Storage.Path = v
	}
	if v, ok := getEnvInt("TIDYTASK_SETTLE_DELAY_MS"); ok && v > 0 {
		cfg.SettleDelayMS = v
	}
	return cfg
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverFile:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Storage.Driver)
	}
}

func (c Config) SettleDelay() time.Duration {
	if c.SettleDelayMS <= 0 {
		return 200 * time.Millisecond
	}
	return time.Duration(c.SettleDelayMS) * time.Millisecond
}

// StoragePath resolves the configured path, falling back to the per-user
// default under the OS config directory.
func (c Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	dir := filepath.Join(base, appDirName)
	if c.Storage.Driver == DriverFile {
		return dir, nil
	}
	return filepath.Join(dir, "tidytask.db"), nil
}

// DefaultPath is the per-user config file location.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, appDirName, "config.yaml"), nil
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
