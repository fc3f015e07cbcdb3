// Package smtp implements ports.BatchDeliverer over SMTP: one outbound
// mail message per batch.
package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/mailsink/internal/domain"
	"github.com/bft-labs/mailsink/internal/ports"
)

// DefaultPort is the standard SMTP port used when none is configured.
const DefaultPort = 25

// Endpoint holds the connection parameters for the remote mail gateway.
// It is immutable for the lifetime of the deliverer.
type Endpoint struct {
	// Host is the mail gateway hostname.
	Host string

	// Port is the mail gateway port; 0 means DefaultPort.
	Port int

	// From is the envelope sender address.
	From string

	// To is the list of recipient addresses.
	To []string

	// Subject is the subject line applied to every outbound message.
	Subject string

	// Username and Password are optional AUTH credentials. Authentication
	// is attempted only when Username is non-empty.
	Username string
	Password string

	// StartTLS upgrades the connection to TLS before authenticating.
	StartTLS bool

	// TLSConfig overrides the TLS parameters used for the upgrade.
	// Nil means a default config with ServerName set to Host.
	TLSConfig *tls.Config

	// Timeout bounds the dial and every subsequent protocol exchange.
	Timeout time.Duration
}

// Deliverer sends one mail message per batch. The message body is the
// newline-joined formatted text of every record, in append order.
// It attempts delivery exactly once; retry policy belongs to the caller.
type Deliverer struct {
	endpoint  Endpoint
	formatter domain.Formatter
	logger    ports.Logger
}

// NewDeliverer creates an SMTP deliverer for the given endpoint.
func NewDeliverer(endpoint Endpoint, formatter domain.Formatter, logger ports.Logger) *Deliverer {
	if endpoint.Port == 0 {
		endpoint.Port = DefaultPort
	}
	return &Deliverer{
		endpoint:  endpoint,
		formatter: formatter,
		logger:    logger,
	}
}

// Deliver transmits the batch as a single message: dial, optional
// STARTTLS upgrade, optional AUTH, MAIL/RCPT/DATA, QUIT. A failure at any
// step is returned as a *domain.DeliveryError naming the stage.
func (d *Deliverer) Deliver(ctx context.Context, batch *domain.Batch) error {
	if batch == nil || batch.Empty() {
		return nil
	}

	addr := net.JoinHostPort(d.endpoint.Host, strconv.Itoa(d.endpoint.Port))

	dialer := &net.Dialer{Timeout: d.endpoint.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return stageErr("dial", err)
	}
	if d.endpoint.Timeout > 0 {
		// The smtp client has no per-command timeout; a connection
		// deadline bounds the whole exchange instead.
		_ = conn.SetDeadline(time.Now().Add(d.endpoint.Timeout))
	}

	client, err := smtp.NewClient(conn, d.endpoint.Host)
	if err != nil {
		conn.Close()
		return stageErr("handshake", err)
	}
	defer client.Close()

	if d.endpoint.StartTLS {
		tlsCfg := d.endpoint.TLSConfig
		if tlsCfg == nil {
			tlsCfg = &tls.Config{ServerName: d.endpoint.Host}
		}
		if err := client.StartTLS(tlsCfg); err != nil {
			return stageErr("starttls", err)
		}
	}

	if d.endpoint.Username != "" {
		auth := smtp.PlainAuth("", d.endpoint.Username, d.endpoint.Password, d.endpoint.Host)
		if err := client.Auth(auth); err != nil {
			return stageErr("auth", err)
		}
	}

	if err := d.send(client, batch); err != nil {
		return err
	}

	if err := client.Quit(); err != nil {
		return stageErr("quit", err)
	}

	d.logger.Debug("message sent",
		ports.String("host", addr),
		ports.Int("records", batch.Size()))
	return nil
}

func (d *Deliverer) send(client *smtp.Client, batch *domain.Batch) error {
	if err := client.Mail(d.endpoint.From); err != nil {
		return stageErr("send", err)
	}
	for _, rcpt := range d.endpoint.To {
		if err := client.Rcpt(rcpt); err != nil {
			return stageErr("send", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return stageErr("send", err)
	}
	if _, err := w.Write(d.message(batch)); err != nil {
		w.Close()
		return stageErr("send", err)
	}
	if err := w.Close(); err != nil {
		return stageErr("send", err)
	}
	return nil
}

// message builds the outbound mail: sender, recipients, subject and date
// headers followed by the newline-joined formatted records.
func (d *Deliverer) message(batch *domain.Batch) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", d.endpoint.From)
	fmt.Fprintf(&sb, "To: %s\r\n", strings.Join(d.endpoint.To, ","))
	fmt.Fprintf(&sb, "Subject: %s\r\n", d.endpoint.Subject)
	fmt.Fprintf(&sb, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	sb.WriteString("\r\n")
	sb.WriteString(batch.Body(d.formatter))
	sb.WriteString("\r\n")
	return []byte(sb.String())
}

func stageErr(stage string, err error) error {
	return &domain.DeliveryError{Stage: stage, Err: err}
}
