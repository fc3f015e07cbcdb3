package mailsink

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/bft-labs/mailsink/internal/adapters/smtp"
	"github.com/bft-labs/mailsink/internal/dispatch"
	"github.com/bft-labs/mailsink/internal/domain"
)

// Defaults applied by SetDefaults.
const (
	DefaultBufferSize = 10
	DefaultWorkers    = 10
	DefaultTimeout    = 5 * time.Second
)

// Config holds the configuration for a mail log sink.
// Use DefaultConfig() to get a Config with sensible defaults. The
// configuration is immutable for the lifetime of the sink; it must be
// fully populated and validated before Configure runs.
type Config struct {
	// Name identifies the logger; it fills the {name} token of the
	// message format.
	Name string

	// Format is the record layout; tokens {time}, {level}, {name} and
	// {message} are substituted per record.
	Format string

	// TimeFormat is the Go reference-time layout for the {time} token.
	TimeFormat string

	// Host is the mail gateway hostname.
	Host string

	// Port is the mail gateway port; defaults to the standard SMTP port.
	Port int

	// From is the sender address.
	From string

	// To is the recipient address list.
	To []string

	// Subject is the subject line applied to every outbound message.
	Subject string

	// Username and Password are optional credentials; authentication is
	// attempted only when Username is set.
	Username string
	Password string

	// StartTLS upgrades the connection before authenticating. TLS
	// optionally overrides the parameters used for the upgrade.
	StartTLS bool
	TLS      *tls.Config

	// Timeout bounds connection setup and the message exchange.
	Timeout time.Duration

	// Level is the severity threshold; records below it are dropped.
	Level Level

	// BufferSize is the number of records that triggers a flush. It must
	// be positive; SetDefaults leaves it alone so that a non-positive
	// value fails validation before any record is ever buffered.
	// DefaultConfig sets it to DefaultBufferSize.
	BufferSize int

	// Workers is the upper bound on concurrent deliveries. With more
	// than one worker, cross-batch delivery order is not guaranteed.
	// DefaultConfig sets it to DefaultWorkers.
	Workers int

	// Policy selects how emit relates to delivery: "fire-and-forget"
	// (default) or "bounded-wait".
	Policy string

	// WaitTimeout bounds the producer's wait under the bounded-wait
	// policy.
	WaitTimeout time.Duration
}

// DefaultConfig returns a Config with default values.
// At minimum, you must set Host, From and To before Configure.
func DefaultConfig() Config {
	cfg := Config{
		BufferSize: DefaultBufferSize,
		Workers:    DefaultWorkers,
	}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills in zero-valued fields with their defaults.
func (c *Config) SetDefaults() {
	if c.Name == "" {
		c.Name = "mailsink"
	}
	if c.Format == "" {
		c.Format = domain.DefaultLayout
	}
	if c.TimeFormat == "" {
		c.TimeFormat = time.RFC3339
	}
	if c.Port == 0 {
		c.Port = smtp.DefaultPort
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Level == 0 {
		c.Level = LevelInfo
	}
	if c.Policy == "" {
		c.Policy = string(dispatch.FireAndForget)
	}
	if c.WaitTimeout == 0 {
		c.WaitTimeout = c.Timeout
	}
}

// Validate checks the configuration for errors. Violations are reported
// before any record is ever buffered; every returned error wraps
// ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Host == "" {
		return invalid("host is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return invalid("port must be in 1..65535, got %d", c.Port)
	}
	if c.From == "" {
		return invalid("sender address is required")
	}
	if len(c.To) == 0 {
		return invalid("at least one recipient is required")
	}
	if c.BufferSize < 1 {
		return invalid("buffer size must be at least 1, got %d", c.BufferSize)
	}
	if c.Workers < 1 {
		return invalid("worker count must be at least 1, got %d", c.Workers)
	}
	if c.Timeout < 0 {
		return invalid("timeout must not be negative")
	}
	if _, err := dispatch.ParsePolicy(c.Policy); err != nil {
		return err
	}
	if dispatch.Policy(c.Policy) == dispatch.BoundedWait && c.WaitTimeout <= 0 {
		return invalid("bounded-wait requires a positive wait timeout")
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func (c *Config) formatter() domain.Formatter {
	return domain.Formatter{Layout: c.Format, TimeFormat: c.TimeFormat}
}

func (c *Config) endpoint() smtp.Endpoint {
	return smtp.Endpoint{
		Host:      c.Host,
		Port:      c.Port,
		From:      c.From,
		To:        c.To,
		Subject:   c.Subject,
		Username:  c.Username,
		Password:  c.Password,
		StartTLS:  c.StartTLS,
		TLSConfig: c.TLS,
		Timeout:   c.Timeout,
	}
}
