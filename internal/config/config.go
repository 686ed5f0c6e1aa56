package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Defaults for the player connection.
const (
	DefaultHost           = "127.0.0.1"
	DefaultPort           = 5500
	DefaultReconnectDelay = 15 // seconds
)

type Config struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// AuthCode is the code shown in the player's remote settings.
	// Zero means the player requires no auth.
	AuthCode int `koanf:"auth_code"`

	Reconnect      bool `koanf:"reconnect"`
	ReconnectDelay int  `koanf:"reconnect_delay"` // seconds

	// Last.fm scrobbling (enables scrobbling in serve mode when configured)
	Lastfm LastfmConfig `koanf:"lastfm"`

	// MPRIS D-Bus bridge (serve mode, linux only)
	Mpris MprisConfig `koanf:"mpris"`

	Log LogConfig `koanf:"log"`
}

// LastfmConfig holds Last.fm scrobbling configuration.
type LastfmConfig struct {
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`
}

// MprisConfig holds MPRIS bridge configuration.
type MprisConfig struct {
	Enabled bool `koanf:"enabled"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `koanf:"level"` // debug, info, warn, error
	File  string `koanf:"file"`  // optional log file for serve mode
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		Host:           DefaultHost,
		Port:           DefaultPort,
		ReconnectDelay: DefaultReconnectDelay,
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port <= 0 {
		cfg.Port = DefaultPort
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/clemote/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "clemote", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasLastfmConfig returns true if Last.fm scrobbling is configured.
func (c *Config) HasLastfmConfig() bool {
	return c.Lastfm.APIKey != "" && c.Lastfm.APISecret != ""
}
