// Package cliconfig loads mailsink CLI configuration from file,
// environment and flags, in ascending precedence.
package cliconfig

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/mailsink"
)

// Config holds CLI configuration for the mailsink command.
// Fields mirror mailsink.Config with string-typed level and policy so
// they can come from flags, TOML and environment uniformly.
type Config struct {
	Name       string
	Format     string
	TimeFormat string

	Host     string
	Port     int
	From     string
	To       []string
	Subject  string
	Username string
	Password string
	StartTLS bool

	Timeout     time.Duration
	Level       string
	BufferSize  int
	Workers     int
	Policy      string
	WaitTimeout time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Name:       "mailsink",
		Port:       25,
		Subject:    "mailsink log batch",
		Timeout:    mailsink.DefaultTimeout,
		Level:      "INFO",
		BufferSize: mailsink.DefaultBufferSize,
		Workers:    mailsink.DefaultWorkers,
		Password:   os.Getenv("MAILSINK_PASSWORD"),
	}
}

// ToSinkConfig converts the CLI configuration into the library
// configuration, parsing the string-typed level.
func (c Config) ToSinkConfig() (mailsink.Config, error) {
	level, err := mailsink.ParseLevel(c.Level)
	if err != nil {
		return mailsink.Config{}, err
	}
	return mailsink.Config{
		Name:        c.Name,
		Format:      c.Format,
		TimeFormat:  c.TimeFormat,
		Host:        c.Host,
		Port:        c.Port,
		From:        c.From,
		To:          c.To,
		Subject:     c.Subject,
		Username:    c.Username,
		Password:    c.Password,
		StartTLS:    c.StartTLS,
		Timeout:     c.Timeout,
		Level:       level,
		BufferSize:  c.BufferSize,
		Workers:     c.Workers,
		Policy:      c.Policy,
		WaitTimeout: c.WaitTimeout,
	}, nil
}

// FileExists reports whether the given path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Logger returns the CLI's zerolog logger with console output.
func Logger() zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(output).With().Timestamp().Logger()
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't
// been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings splits a comma-separated list and sets it if non-empty and
// flag not changed.
func (s *configSetter) setStrings(flag, value string, dst *[]string) {
	if value == "" || s.changed[flag] {
		return
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) > 0 {
		*dst = out
	}
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag
// not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if
// valid. Used for environment variables.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
