package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// PortConfig describes the serial link a tool talks through.
type PortConfig struct {
	Device         string
	BaudRate       int
	BufferCapacity int
	ReadTimeout    time.Duration
}

type filePortConfig struct {
	Device         string `toml:"device"`
	BaudRate       int    `toml:"baud_rate"`
	BufferCapacity int    `toml:"buffer_capacity"`
	ReadTimeout    string `toml:"read_timeout"`
}

// DefaultPortConfig returns the settings used when no file overrides them.
func DefaultPortConfig() PortConfig {
	return PortConfig{
		BaudRate:       115200,
		BufferCapacity: 1024,
		ReadTimeout:    2 * time.Second,
	}
}

// LoadPortConfig reads a TOML port configuration, keeping defaults for keys
// the file does not define.
func LoadPortConfig(path string) (PortConfig, error) {
	cfg := DefaultPortConfig()

	var raw filePortConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return PortConfig{}, fmt.Errorf("load port config: %w", err)
	}

	if meta.IsDefined("device") {
		cfg.Device = strings.TrimSpace(raw.Device)
	}
	if meta.IsDefined("baud_rate") {
		cfg.BaudRate = raw.BaudRate
	}
	if meta.IsDefined("buffer_capacity") {
		cfg.BufferCapacity = raw.BufferCapacity
	}
	if meta.IsDefined("read_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReadTimeout))
		if err != nil {
			return PortConfig{}, fmt.Errorf("parse read_timeout: %w", err)
		}
		cfg.ReadTimeout = d
	}

	if err := ValidatePortConfig(cfg); err != nil {
		return PortConfig{}, err
	}
	return cfg, nil
}

// ValidatePortConfig rejects configurations no tool can run with.
func ValidatePortConfig(cfg PortConfig) error {
	if strings.TrimSpace(cfg.Device) == "" {
		return fmt.Errorf("port config missing device")
	}
	if cfg.BaudRate <= 0 {
		return fmt.Errorf("port config invalid baud_rate %d", cfg.BaudRate)
	}
	if cfg.BufferCapacity < 0 {
		return fmt.Errorf("port config invalid buffer_capacity %d", cfg.BufferCapacity)
	}
	if cfg.ReadTimeout < 0 {
		return fmt.Errorf("port config invalid read_timeout %s", cfg.ReadTimeout)
	}
	return nil
}
