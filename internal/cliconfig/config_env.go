package cliconfig

import (
	"fmt"
	"os"
)

// ApplyEnvConfig applies configuration from environment variables
// (MAILSINK_*). It respects flags that have been explicitly set
// (changed map). Returns an error if any variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("name", os.Getenv("MAILSINK_NAME"), &cfg.Name)
	s.setString("format", os.Getenv("MAILSINK_FORMAT"), &cfg.Format)
	s.setString("time-format", os.Getenv("MAILSINK_TIME_FORMAT"), &cfg.TimeFormat)

	s.setString("host", os.Getenv("MAILSINK_HOST"), &cfg.Host)
	s.setString("from", os.Getenv("MAILSINK_FROM"), &cfg.From)
	s.setStrings("to", os.Getenv("MAILSINK_TO"), &cfg.To)
	s.setString("subject", os.Getenv("MAILSINK_SUBJECT"), &cfg.Subject)
	s.setString("username", os.Getenv("MAILSINK_USERNAME"), &cfg.Username)
	s.setString("password", os.Getenv("MAILSINK_PASSWORD"), &cfg.Password)
	s.setBoolFromString("starttls", os.Getenv("MAILSINK_STARTTLS"), &cfg.StartTLS)

	s.setString("level", os.Getenv("MAILSINK_LEVEL"), &cfg.Level)
	s.setString("policy", os.Getenv("MAILSINK_POLICY"), &cfg.Policy)

	if err := s.setIntFromString("port", os.Getenv("MAILSINK_PORT"), &cfg.Port); err != nil {
		return fmt.Errorf("parse MAILSINK_PORT: %w", err)
	}
	if err := s.setIntFromString("buffer-size", os.Getenv("MAILSINK_BUFFER_SIZE"), &cfg.BufferSize); err != nil {
		return fmt.Errorf("parse MAILSINK_BUFFER_SIZE: %w", err)
	}
	if err := s.setIntFromString("workers", os.Getenv("MAILSINK_WORKERS"), &cfg.Workers); err != nil {
		return fmt.Errorf("parse MAILSINK_WORKERS: %w", err)
	}
	if err := s.setDuration("timeout", os.Getenv("MAILSINK_TIMEOUT"), &cfg.Timeout); err != nil {
		return fmt.Errorf("parse MAILSINK_TIMEOUT: %w", err)
	}
	if err := s.setDuration("wait-timeout", os.Getenv("MAILSINK_WAIT_TIMEOUT"), &cfg.WaitTimeout); err != nil {
		return fmt.Errorf("parse MAILSINK_WAIT_TIMEOUT: %w", err)
	}

	return nil
}
