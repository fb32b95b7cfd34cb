package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "port.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadPortConfig(t *testing.T) {
	path := writeConfig(t, `
device = "/dev/ttyACM0"
baud_rate = 921600
read_timeout = "500ms"
`)
	cfg, err := LoadPortConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Device != "/dev/ttyACM0" {
		t.Fatalf("device = %q", cfg.Device)
	}
	if cfg.BaudRate != 921600 {
		t.Fatalf("baud_rate = %d", cfg.BaudRate)
	}
	if cfg.ReadTimeout != 500*time.Millisecond {
		t.Fatalf("read_timeout = %s", cfg.ReadTimeout)
	}
	// Keys the file does not define keep their defaults.
	if cfg.BufferCapacity != DefaultPortConfig().BufferCapacity {
		t.Fatalf("buffer_capacity = %d", cfg.BufferCapacity)
	}
}

func TestLoadPortConfigMissingDevice(t *testing.T) {
	path := writeConfig(t, `baud_rate = 9600`)
	if _, err := LoadPortConfig(path); err == nil {
		t.Fatalf("expected error for missing device")
	}
}

func TestLoadPortConfigBadTimeout(t *testing.T) {
	path := writeConfig(t, `
device = "/dev/ttyACM0"
read_timeout = "soon"
`)
	if _, err := LoadPortConfig(path); err == nil {
		t.Fatalf("expected error for bad read_timeout")
	}
}

func TestValidatePortConfig(t *testing.T) {
	cfg := DefaultPortConfig()
	cfg.Device = "/dev/ttyUSB0"
	if err := ValidatePortConfig(cfg); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := cfg
	bad.BaudRate = 0
	if err := ValidatePortConfig(bad); err == nil {
		t.Fatalf("zero baud rate accepted")
	}

	bad = cfg
	bad.ReadTimeout = -time.Second
	if err := ValidatePortConfig(bad); err == nil {
		t.Fatalf("negative timeout accepted")
	}
}
