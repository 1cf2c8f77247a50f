// Package config loads interpreter settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sergev/fikl/lang"
)

// DefaultFileName is looked up in the home directory when no explicit
// config path is given.
const DefaultFileName = ".fikl.yaml"

// Config holds the driver settings.
type Config struct {
	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt"`
	HistoryFile        string `yaml:"history_file"`
	MaxDepth           int    `yaml:"max_depth"`
	LogLevel           string `yaml:"log_level"`
	Prelude            bool   `yaml:"prelude"`
}

// ValidationError lists every problem found in a config file.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Path, strings.Join(e.Issues, "; "))
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Prompt:             "fikl> ",
		ContinuationPrompt: ".... ",
		HistoryFile:        "~/.fikl_history",
		MaxDepth:           lang.DefaultMaxDepth,
		LogLevel:           "warn",
		Prelude:            true,
	}
}

// Load reads settings from path on top of the defaults. The file must exist.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()
	return decode(path, file)
}

// LoadDefault reads ~/.fikl.yaml when present and returns the defaults
// otherwise.
func LoadDefault() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return Default(), nil
	}
	path := filepath.Join(home, DefaultFileName)
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func decode(path string, r io.Reader) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings, for use after flag overrides.
func (c *Config) Validate() error {
	return c.validate("<flags>")
}

func (c *Config) validate(path string) error {
	var errs ValidationError
	if c.MaxDepth < 0 {
		errs.Issues = append(errs.Issues, "max_depth must not be negative")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs.Issues = append(errs.Issues, err.Error())
	}
	if len(errs.Issues) > 0 {
		errs.Path = path
		return &errs
	}
	return nil
}

// SlogLevel converts LogLevel for slog handlers.
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// HistoryPath expands a leading ~ in HistoryFile. An empty result disables
// history.
func (c *Config) HistoryPath() string {
	path := c.HistoryFile
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return ""
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log_level %q is not one of debug, info, warn, error", s)
	}
	return level, nil
}
