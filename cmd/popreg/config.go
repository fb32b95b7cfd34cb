package main

import (
	"fmt"

	"github.com/danmuck/popcop/internal/config"
)

// loadConfig merges the optional config file with command-line overrides.
func loadConfig(path, device string, baud int) (config.PortConfig, error) {
	cfg := config.DefaultPortConfig()
	if path != "" {
		loaded, err := config.LoadPortConfig(path)
		if err != nil {
			return config.PortConfig{}, err
		}
		cfg = loaded
	}
	if device != "" {
		cfg.Device = device
	}
	if baud > 0 {
		cfg.BaudRate = baud
	}
	if cfg.Device == "" {
		return config.PortConfig{}, fmt.Errorf("no serial device: pass --port or a config file")
	}
	return cfg, config.ValidatePortConfig(cfg)
}
