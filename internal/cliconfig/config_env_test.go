package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	t.Setenv("MAILSINK_HOST", "env.example.com")
	t.Setenv("MAILSINK_PORT", "2525")
	t.Setenv("MAILSINK_FROM", "env@example.com")
	t.Setenv("MAILSINK_TO", "a@example.com, b@example.com,")
	t.Setenv("MAILSINK_STARTTLS", "true")
	t.Setenv("MAILSINK_TIMEOUT", "7s")
	t.Setenv("MAILSINK_LEVEL", "critical")

	cfg := Config{}
	if err := ApplyEnvConfig(&cfg, map[string]bool{}); err != nil {
		t.Fatalf("ApplyEnvConfig: %v", err)
	}

	if cfg.Host != "env.example.com" || cfg.Port != 2525 {
		t.Errorf("endpoint mismatch: %+v", cfg)
	}
	if len(cfg.To) != 2 || cfg.To[0] != "a@example.com" || cfg.To[1] != "b@example.com" {
		t.Errorf("recipient list mismatch: %v", cfg.To)
	}
	if !cfg.StartTLS {
		t.Error("starttls not applied")
	}
	if cfg.Timeout != 7*time.Second {
		t.Errorf("timeout mismatch: %v", cfg.Timeout)
	}
	if cfg.Level != "critical" {
		t.Errorf("level mismatch: %q", cfg.Level)
	}
}

func TestApplyEnvConfigRespectsChangedFlags(t *testing.T) {
	t.Setenv("MAILSINK_HOST", "env.example.com")

	cfg := Config{Host: "flag.example.com"}
	if err := ApplyEnvConfig(&cfg, map[string]bool{"host": true}); err != nil {
		t.Fatalf("ApplyEnvConfig: %v", err)
	}
	if cfg.Host != "flag.example.com" {
		t.Errorf("flag value overridden by env: %q", cfg.Host)
	}
}

func TestApplyEnvConfigInvalidValues(t *testing.T) {
	t.Setenv("MAILSINK_PORT", "not-a-port")
	if err := ApplyEnvConfig(&Config{}, map[string]bool{}); err == nil {
		t.Fatal("expected error for invalid port")
	}

	t.Setenv("MAILSINK_PORT", "")
	t.Setenv("MAILSINK_TIMEOUT", "later")
	if err := ApplyEnvConfig(&Config{}, map[string]bool{}); err == nil {
		t.Fatal("expected error for invalid timeout")
	}
}

func TestToSinkConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "smtp.example.com"
	cfg.From = "app@example.com"
	cfg.To = []string{"ops@example.com"}
	cfg.Level = "warning"

	sinkCfg, err := cfg.ToSinkConfig()
	if err != nil {
		t.Fatalf("ToSinkConfig: %v", err)
	}
	if sinkCfg.Host != "smtp.example.com" || len(sinkCfg.To) != 1 {
		t.Errorf("endpoint mismatch: %+v", sinkCfg)
	}
	if sinkCfg.Level.String() != "WARNING" {
		t.Errorf("level mismatch: %v", sinkCfg.Level)
	}

	cfg.Level = "noisy"
	if _, err := cfg.ToSinkConfig(); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
