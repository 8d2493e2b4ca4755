package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings is process configuration read from the environment.
type Settings struct {
	ConfigDir     string        `env:"MARQUEE_CONFIG_DIR" envDefault:"config"`
	TickInterval  time.Duration `env:"MARQUEE_TICK_INTERVAL" envDefault:"50ms"`
	LogLevel      string        `env:"MARQUEE_LOG_LEVEL" envDefault:"info"`
	LogFormat     string        `env:"MARQUEE_LOG_FORMAT" envDefault:"text"`
	ScriptTimeout time.Duration `env:"MARQUEE_SCRIPT_TIMEOUT" envDefault:"50ms"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadSettings reads Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	if s.TickInterval <= 0 {
		return Settings{}, fmt.Errorf("MARQUEE_TICK_INTERVAL must be positive, got %s", s.TickInterval)
	}
	if _, err := ParseLevel(s.LogLevel); err != nil {
		return Settings{}, err
	}
	switch strings.ToLower(s.LogFormat) {
	case "text", "json":
	default:
		return Settings{}, fmt.Errorf("MARQUEE_LOG_FORMAT must be text or json, got %q", s.LogFormat)
	}
	return s, nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
	return l, nil
}

// NewLogger builds a logger writing to w per the settings. Invalid values
// fall back to info/text.
func (s Settings) NewLogger(w io.Writer) *slog.Logger {
	level, _ := ParseLevel(s.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(s.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
