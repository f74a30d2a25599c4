package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Lane    LaneConfig    `mapstructure:"lane"`
	Audio   AudioConfig   `mapstructure:"audio"`
	UI      UIConfig      `mapstructure:"ui"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// LaneConfig selects the lane file to open
type LaneConfig struct {
	File string `mapstructure:"file"` // Empty opens the built-in lane
}

// AudioConfig holds background audio configuration
type AudioConfig struct {
	Command  string   `mapstructure:"command"`  // Empty auto-detects a player
	Args     []string `mapstructure:"args"`     // Extra player arguments
	Volume   float64  `mapstructure:"volume"`   // 0-1
	Autoplay bool     `mapstructure:"autoplay"` // Honor play-audio cues
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme          string        `mapstructure:"theme"`           // Fallback theme for sections without one
	LoaderDuration time.Duration `mapstructure:"loader_duration"` // How long the intro spinner shows
	Resume         bool          `mapstructure:"resume"`          // Reopen at the last section
	Mouse          bool          `mapstructure:"mouse"`           // Mouse wheel scrolling
}

// CacheConfig holds resume store configuration
type CacheConfig struct {
	Dir string `mapstructure:"dir"` // Empty keeps resume data in memory only
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Audio: AudioConfig{
			Args:     []string{},
			Volume:   0.3,
			Autoplay: false,
		},
		UI: UIConfig{
			Theme:          "default",
			LoaderDuration: 3 * time.Second,
			Resume:         true,
			Mouse:          true,
		},
		Cache: CacheConfig{
			Dir: defaultCachePath(),
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "memorylane", "memorylane.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "memorylane", "memorylane.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "memorylane")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "memorylane")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "memorylane", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "memorylane", "cache")
	}
}

// newViper builds a viper instance seeded with defaults so every key can be
// overridden from the environment (MEMORYLANE_AUDIO_VOLUME, ...)
func newViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfig()

	v.SetDefault("lane.file", def.Lane.File)
	v.SetDefault("audio.command", def.Audio.Command)
	v.SetDefault("audio.args", def.Audio.Args)
	v.SetDefault("audio.volume", def.Audio.Volume)
	v.SetDefault("audio.autoplay", def.Audio.Autoplay)
	v.SetDefault("ui.theme", def.UI.Theme)
	v.SetDefault("ui.loader_duration", def.UI.LoaderDuration)
	v.SetDefault("ui.resume", def.UI.Resume)
	v.SetDefault("ui.mouse", def.UI.Mouse)
	v.SetDefault("cache.dir", def.Cache.Dir)
	v.SetDefault("logging.file", def.Logging.File)
	v.SetDefault("logging.level", def.Logging.Level)

	v.SetEnvPrefix("MEMORYLANE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// LoadConfig loads configuration from file and environment.
// An explicit path must exist; otherwise the default locations are searched
// and a missing file means defaults.
func LoadConfig(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume must be between 0 and 1, got %g", c.Audio.Volume)
	}
	if c.UI.LoaderDuration < 0 {
		return fmt.Errorf("ui.loader_duration must not be negative, got %s", c.UI.LoaderDuration)
	}
	return nil
}

// SaveConfig writes cfg as YAML to path, or to the default location when
// path is empty
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = filepath.Join(defaultConfigPath(), "config.yaml")
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("lane.file", cfg.Lane.File)

	v.Set("audio.command", cfg.Audio.Command)
	v.Set("audio.args", cfg.Audio.Args)
	v.Set("audio.volume", cfg.Audio.Volume)
	v.Set("audio.autoplay", cfg.Audio.Autoplay)

	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.loader_duration", cfg.UI.LoaderDuration.String())
	v.Set("ui.resume", cfg.UI.Resume)
	v.Set("ui.mouse", cfg.UI.Mouse)

	v.Set("cache.dir", cfg.Cache.Dir)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ClearCache removes all cached resume data
func ClearCache(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
