package logging

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel     = "POPCOP_LOG_LEVEL"
	EnvLogTimestamp = "POPCOP_LOG_TIMESTAMP"
	EnvLogNoColor   = "POPCOP_LOG_NOCOLOR"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

var configureOnce sync.Once

// ConfigureRuntime sets up the process logger for a command-line tool.
func ConfigureRuntime(app string) zerolog.Logger {
	return Configure(ProfileRuntime, app)
}

// ConfigureTests sets up the process logger for test binaries.
func ConfigureTests() zerolog.Logger {
	return Configure(ProfileTest, "test")
}

// Configure initializes the global logger once and returns it tagged with
// app. Subsequent calls keep the first configuration (their profile is
// ignored) and only tag the returned logger with their own app name.
func Configure(profile Profile, app string) zerolog.Logger {
	configureOnce.Do(func() {
		level := zerolog.InfoLevel
		timestamp := true
		if profile == ProfileTest {
			level = zerolog.DebugLevel
			timestamp = false
		}
		noColor := false

		if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
			level = lvl
		}
		if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
			timestamp = v
		}
		if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
			noColor = v
		}

		output := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    noColor,
		}
		logger := zerolog.New(output).Level(level)
		if timestamp {
			logger = logger.With().Timestamp().Logger()
		}
		log.Logger = logger
	})
	return log.Logger.With().Str("app", app).Logger()
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
