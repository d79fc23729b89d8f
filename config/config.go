// Package config loads the coprocessor session configuration from YAML
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SerialConfig describes the link to the host
type SerialConfig struct {
	Device        string `yaml:"device"`
	Baud          int    `yaml:"baud"`
	// ReadTimeoutMS bounds one port read; an explicit 0 blocks until data
	// arrives
	ReadTimeoutMS int `yaml:"read_timeout_ms"`
	FifoSize      int    `yaml:"fifo_size"`
}

// VDUConfig tunes the command processor
type VDUConfig struct {
	// MaxCallDepth bounds nested buffer calls; 0 means unbounded
	MaxCallDepth int `yaml:"max_call_depth"`
}

// LogConfig selects the logger
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// MetricsConfig enables the prometheus endpoint when Listen is set
type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// Config is the full session configuration
type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	VDU     VDUConfig     `yaml:"vdu"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{Serial: SerialConfig{ReadTimeoutMS: 100}}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses the YAML file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration over the defaults. Keys absent from data
// keep their default; zero values that mean "unset" are defaulted again.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(cfg *Config) {
	if cfg.Serial.Device == "" {
		cfg.Serial.Device = "/dev/ttyUSB0"
	}
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = 1152000
	}
	if cfg.Serial.FifoSize == 0 {
		cfg.Serial.FifoSize = 512
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate rejects values the session cannot run with
func (c *Config) Validate() error {
	if c.Serial.Baud < 0 {
		return fmt.Errorf("serial.baud must be positive, got %d", c.Serial.Baud)
	}
	if c.Serial.ReadTimeoutMS < 0 {
		return fmt.Errorf("serial.read_timeout_ms must not be negative, got %d", c.Serial.ReadTimeoutMS)
	}
	if c.Serial.FifoSize < 2 {
		return fmt.Errorf("serial.fifo_size must be at least 2, got %d", c.Serial.FifoSize)
	}
	if c.VDU.MaxCallDepth < 0 {
		return fmt.Errorf("vdu.max_call_depth must not be negative, got %d", c.VDU.MaxCallDepth)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}
