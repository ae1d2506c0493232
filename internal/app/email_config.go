package app

import (
	"strings"

	"github.com/reelhub/reelhub/internal/services"
	"github.com/reelhub/reelhub/pkg/mail"
)

// SMTPSettings converts EmailConfig to the mail package representation.
func (c EmailConfig) SMTPSettings() mail.SMTPSettings {
	return mail.SMTPSettings{
		Enabled:  c.SMTP.Enabled,
		Host:     strings.TrimSpace(c.SMTP.Host),
		Port:     c.SMTP.Port,
		Username: c.SMTP.Username,
		Password: c.SMTP.Password,
		From:     strings.TrimSpace(c.SMTP.From),
		UseTLS:   c.SMTP.UseTLS,
		Timeout:  c.SMTP.Timeout,
	}
}

// NotifierConfig builds the mail notifier settings from the server and token sections.
func (c Config) NotifierConfig() services.NotifierConfig {
	return services.NotifierConfig{
		AppName:  c.Server.AppName,
		BaseURL:  c.Server.BaseURL,
		TokenTTL: c.Auth.Tokens.TTL,
	}
}
