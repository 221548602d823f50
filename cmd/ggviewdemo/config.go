package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Hosts the demo can run on.
const (
	HostWindow   = "window"
	HostTerminal = "terminal"
	HostPNG      = "png"
)

// ErrConfig is returned for unreadable or invalid configuration.
var ErrConfig = errors.New("ggviewdemo: invalid config")

// Config is the demo configuration, read from TOML.
type Config struct {
	Host        string  `toml:"host"`
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	FPS         int     `toml:"fps"`
	Title       string  `toml:"title"`
	Background  string  `toml:"background"`
	Sensitivity float64 `toml:"sensitivity"`
	Script      string  `toml:"script"`
	Output      string  `toml:"output"`
	Frames      int     `toml:"frames"`
	LogLevel    string  `toml:"log_level"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Host:        HostWindow,
		Width:       800,
		Height:      600,
		FPS:         30,
		Title:       "ggview demo",
		Background:  "#1a2233",
		Sensitivity: 1,
		Output:      "ggview.png",
		Frames:      3,
		LogLevel:    "warn",
	}
}

// LoadConfig reads path over the defaults. A missing file yields the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("%w: reading %s: %v", ErrConfig, path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes TOML data over the defaults. Unknown keys are
// rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks field ranges.
func (c Config) Validate() error {
	switch c.Host {
	case HostWindow, HostTerminal, HostPNG:
	default:
		return fmt.Errorf("%w: unknown host %q", ErrConfig, c.Host)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrConfig, c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps=%d", ErrConfig, c.FPS)
	}
	if c.Frames <= 0 {
		return fmt.Errorf("%w: frames=%d", ErrConfig, c.Frames)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("%w: log_level %q", ErrConfig, c.LogLevel)
	}
	return l, nil
}
