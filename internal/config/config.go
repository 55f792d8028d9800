// Package config loads envcast's TOML configuration and scenario settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all envcast configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultMonths int    `toml:"default_months"`
	SnapshotPath  string `toml:"snapshot_path,omitempty"`
	SettingsPath  string `toml:"settings_path,omitempty"`
	LogLevel      string `toml:"log_level"`
	NoCache       bool   `toml:"no_cache,omitempty"`
}

// DaemonConfig holds background watcher settings.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	IntervalSec  int    `toml:"interval_sec"`
	EventsBuffer int    `toml:"events_buffer"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// envOverrides are read from ENVCAST_* variables. Empty values leave the
// file configuration alone.
type envOverrides struct {
	Snapshot string `envconfig:"SNAPSHOT"`
	Months   int    `envconfig:"MONTHS"`
	Settings string `envconfig:"SETTINGS"`
	LogLevel string `envconfig:"LOG_LEVEL"`
	Addr     string `envconfig:"DAEMON_ADDR"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultMonths: 3,
			LogLevel:      "warn",
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8787",
			IntervalSec:  15,
			EventsBuffer: 200,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "envcast")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "envcast")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DefaultSettingsPath returns where scenario settings live unless the
// config names another file.
func DefaultSettingsPath() string {
	return filepath.Join(ConfigDir(), "settings.toml")
}

// SettingsFile returns the scenario settings path for cfg.
func (c Config) SettingsFile() string {
	if c.General.SettingsPath != "" {
		return c.General.SettingsPath
	}
	return DefaultSettingsPath()
}

// Load reads the config file, returning defaults if it doesn't exist.
// ENVCAST_* environment variables are applied on top.
func Load() (Config, error) {
	cfg, err := LoadFile(ConfigPath())
	if err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile reads one config file over DefaultConfig.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user's config dir
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overlays ENVCAST_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process("ENVCAST", &env); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	if env.Snapshot != "" {
		cfg.General.SnapshotPath = env.Snapshot
	}
	if env.Months > 0 {
		cfg.General.DefaultMonths = env.Months
	}
	if env.Settings != "" {
		cfg.General.SettingsPath = env.Settings
	}
	if env.LogLevel != "" {
		cfg.General.LogLevel = env.LogLevel
	}
	if env.Addr != "" {
		cfg.Daemon.Addr = env.Addr
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(ConfigPath(), cfg)
}

// SaveFile writes cfg to path, creating the parent directory.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path comes from the user's config dir
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
