package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	netmail "net/mail"
	"strings"
	"time"

	gomail "github.com/go-mail/mail"
)

// ErrSMTPDisabled signals that SMTP delivery is disabled via configuration.
var ErrSMTPDisabled = errors.New("smtp: delivery disabled")

// Message represents an outbound email. HTMLBody is optional and sent as an alternative part.
type Message struct {
	From     string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// Mailer defines behaviour for sending email messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSettings capture the runtime configuration required by the SMTP mailer.
type SMTPSettings struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
	Timeout  time.Duration
}

type sendFunc func(d *gomail.Dialer, msg *gomail.Message) error

type smtpMailer struct {
	cfg  SMTPSettings
	send sendFunc
}

// NewSMTPMailer validates cfg and returns a Mailer delivering through go-mail's SMTP dialer.
func NewSMTPMailer(cfg SMTPSettings) (Mailer, error) {
	if err := validateSMTPConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &smtpMailer{
		cfg:  cfg,
		send: dialAndSend,
	}, nil
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if !m.cfg.Enabled {
		return ErrSMTPDisabled
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	recipients := uniqueAddresses(msg.To)
	if len(recipients) == 0 {
		return errors.New("smtp: at least one recipient is required")
	}

	from := strings.TrimSpace(msg.From)
	if from == "" {
		from = m.cfg.From
	}
	if from == "" {
		return errors.New("smtp: sender address is required")
	}
	if _, err := netmail.ParseAddress(from); err != nil {
		return fmt.Errorf("smtp: invalid from address: %w", err)
	}
	for _, rcpt := range recipients {
		if _, err := netmail.ParseAddress(rcpt); err != nil {
			return fmt.Errorf("smtp: invalid recipient address %q: %w", rcpt, err)
		}
	}

	if err := m.send(m.dialer(), buildMessage(from, recipients, msg)); err != nil {
		return fmt.Errorf("smtp: send: %w", err)
	}
	return nil
}

func (m *smtpMailer) dialer() *gomail.Dialer {
	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	d.Timeout = m.cfg.Timeout
	d.TLSConfig = &tls.Config{ServerName: m.cfg.Host}
	if m.cfg.UseTLS {
		d.SSL = true
	}
	return d
}

func buildMessage(from string, to []string, msg Message) *gomail.Message {
	out := gomail.NewMessage()
	out.SetHeader("From", from)
	out.SetHeader("To", to...)
	out.SetHeader("Subject", escapeHeader(msg.Subject))

	switch {
	case msg.Body != "" && msg.HTMLBody != "":
		out.SetBody("text/plain", msg.Body)
		out.AddAlternative("text/html", msg.HTMLBody)
	case msg.HTMLBody != "":
		out.SetBody("text/html", msg.HTMLBody)
	default:
		out.SetBody("text/plain", msg.Body)
	}
	return out
}

func dialAndSend(d *gomail.Dialer, msg *gomail.Message) error {
	return d.DialAndSend(msg)
}

func validateSMTPConfig(cfg SMTPSettings) error {
	if !cfg.Enabled {
		return nil
	}
	if strings.TrimSpace(cfg.Host) == "" {
		return errors.New("smtp: host is required when enabled")
	}
	if cfg.Port == 0 {
		return errors.New("smtp: port is required when enabled")
	}
	return nil
}

func uniqueAddresses(addresses []string) []string {
	seen := make(map[string]struct{}, len(addresses))
	var result []string
	for _, addr := range addresses {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		if _, exists := seen[addr]; exists {
			continue
		}
		seen[addr] = struct{}{}
		result = append(result, addr)
	}
	return result
}

func escapeHeader(value string) string {
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	return value
}
