package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Source kinds
const (
	SourceIndex = "index"
	SourceIPC   = "ipc"
)

// ErrUnknownSource is returned for a source kind other than index or ipc
var ErrUnknownSource = errors.New("unknown source kind")

// Config represents the application configuration
type Config struct {
	Version      int                `toml:"version"`
	Autocomplete AutocompleteConfig `toml:"autocomplete"`
	Source       SourceConfig       `toml:"source"`
	UI           UISettings         `toml:"ui"`
	Log          LogConfig          `toml:"log"`
}

// AutocompleteConfig holds the widget options
type AutocompleteConfig struct {
	DebounceWaitMs int    `toml:"debounce_wait_ms"`
	MinLength      int    `toml:"min_length"`
	EmptyMsg       string `toml:"empty_msg"`
	ClassName      string `toml:"class_name"`
	Limit          int    `toml:"limit"`
}

// DebounceWait returns the debounce delay as a duration
func (a AutocompleteConfig) DebounceWait() time.Duration {
	return time.Duration(a.DebounceWaitMs) * time.Millisecond
}

// SourceConfig selects where candidates come from
type SourceConfig struct {
	Kind       string `toml:"kind"`
	Dictionary string `toml:"dictionary"` // empty means the built-in word list
	LatencyMs  int    `toml:"latency_ms"`
	JitterMs   int    `toml:"jitter_ms"`
	CacheSize  int    `toml:"cache_size"` // 0 disables caching
}

// Latency returns the artificial fetch latency
func (s SourceConfig) Latency() time.Duration {
	return time.Duration(s.LatencyMs) * time.Millisecond
}

// Jitter returns the random extra latency bound
func (s SourceConfig) Jitter() time.Duration {
	return time.Duration(s.JitterMs) * time.Millisecond
}

// UISettings represents UI-related configuration
type UISettings struct {
	CopyOnSelect bool `toml:"copy_on_select"`
	SecondField  bool `toml:"second_field"`
}

// LogConfig configures the log file
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceIndex, SourceIPC:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, c.Source.Kind)
	}
	if c.Source.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.Source.CacheSize)
	}
	if c.Autocomplete.DebounceWaitMs < 0 {
		return fmt.Errorf("debounce_wait_ms must not be negative, got %d", c.Autocomplete.DebounceWaitMs)
	}
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service for the default location,
// $XDG_CONFIG_HOME/suggestbox/config.toml
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return NewConfigServiceAt(filepath.Join(configDir, "suggestbox", "config.toml"))
}

// NewConfigServiceAt creates a config service for a specific file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// Path returns the file Load and Save use
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, falling back to defaults when
// the file does not exist
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := Encode(config)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Encode renders the configuration as TOML
func Encode(config *Config) ([]byte, error) {
	data, err := toml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Autocomplete: AutocompleteConfig{
			DebounceWaitMs: 150,
			MinLength:      2,
			EmptyMsg:       "No matches",
			Limit:          12,
		},
		Source: SourceConfig{
			Kind:      SourceIndex,
			LatencyMs: 40,
			JitterMs:  120,
			CacheSize: 128,
		},
		UI: UISettings{
			CopyOnSelect: false,
			SecondField:  true,
		},
		Log: LogConfig{
			Level: "info",
			File:  "suggestbox.log",
		},
	}
}
