package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration
type Config struct {
	General  GeneralConfig    `toml:"general"`
	Engine   EngineConfig     `toml:"engine"`
	Watch    WatchConfig      `toml:"watch"`
	Preview  PreviewConfig    `toml:"preview"`
	Schedule []ScheduleConfig `toml:"schedule"`
}

// GeneralConfig holds general settings
type GeneralConfig struct {
	ScenesDir      string `toml:"scenes_dir"`
	MediaDir       string `toml:"media_dir"`
	DefaultQuality string `toml:"default_quality"`
	Jobs           int    `toml:"jobs"`
}

// EngineConfig holds rendering engine settings
type EngineConfig struct {
	Binary          string   `toml:"binary"`
	ExtraFlags      []string `toml:"extra_flags"`
	StderrTailLines int      `toml:"stderr_tail_lines"`
}

// WatchConfig holds watch-mode settings
type WatchConfig struct {
	DebounceMS int `toml:"debounce_ms"`
}

// PreviewConfig holds preview server settings
type PreviewConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ScheduleConfig describes one cron-driven batch render
type ScheduleConfig struct {
	Name    string `toml:"name"`
	Cron    string `toml:"cron"`
	Quality string `toml:"quality"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		General: GeneralConfig{
			ScenesDir:      "scenes",
			MediaDir:       "media",
			DefaultQuality: "l",
			Jobs:           1,
		},
		Engine: EngineConfig{
			Binary:          "manim",
			StderrTailLines: 20,
		},
		Watch: WatchConfig{
			DebounceMS: 400,
		},
		Preview: PreviewConfig{
			Host: "127.0.0.1",
			Port: 7077,
		},
	}
}

// DefaultConfigPath returns the standard config file location
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "scenectl", "config.toml")
}

// Load reads configuration from a TOML file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Expand paths
	cfg.General.ScenesDir = ExpandPath(cfg.General.ScenesDir)
	cfg.General.MediaDir = ExpandPath(cfg.General.MediaDir)

	return cfg, nil
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
