package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML
// friendly.
type FileConfig struct {
	Name       string `toml:"name"`
	Format     string `toml:"format"`
	TimeFormat string `toml:"time_format"`

	Host     string   `toml:"host"`
	Port     int      `toml:"port"`
	From     string   `toml:"from"`
	To       []string `toml:"to"`
	Subject  string   `toml:"subject"`
	Username string   `toml:"username"`
	Password string   `toml:"password"`
	StartTLS *bool    `toml:"starttls"`

	Timeout     string `toml:"timeout"`
	Level       string `toml:"level"`
	BufferSize  int    `toml:"buffer_size"`
	Workers     int    `toml:"workers"`
	Policy      string `toml:"policy"`
	WaitTimeout string `toml:"wait_timeout"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path,
// ~/.mailsink/config.toml, or "" if the home directory is inaccessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".mailsink", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("name", fc.Name, &cfg.Name)
	s.setString("format", fc.Format, &cfg.Format)
	s.setString("time-format", fc.TimeFormat, &cfg.TimeFormat)

	s.setString("host", fc.Host, &cfg.Host)
	s.setInt("port", fc.Port, &cfg.Port)
	s.setString("from", fc.From, &cfg.From)
	if len(fc.To) > 0 && !changed["to"] {
		cfg.To = fc.To
	}
	s.setString("subject", fc.Subject, &cfg.Subject)
	s.setString("username", fc.Username, &cfg.Username)
	s.setString("password", fc.Password, &cfg.Password)
	s.setBool("starttls", fc.StartTLS, &cfg.StartTLS)

	if err := s.setDuration("timeout", fc.Timeout, &cfg.Timeout); err != nil {
		return fmt.Errorf("parse timeout: %w", err)
	}
	s.setString("level", fc.Level, &cfg.Level)
	s.setInt("buffer-size", fc.BufferSize, &cfg.BufferSize)
	s.setInt("workers", fc.Workers, &cfg.Workers)
	s.setString("policy", fc.Policy, &cfg.Policy)
	if err := s.setDuration("wait-timeout", fc.WaitTimeout, &cfg.WaitTimeout); err != nil {
		return fmt.Errorf("parse wait-timeout: %w", err)
	}

	return nil
}
