package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/reelhub/reelhub/pkg/logger"
	"github.com/reelhub/reelhub/pkg/mail"
	"github.com/reelhub/reelhub/pkg/metrics"
)

const (
	resetPasswordPath = "/auth/new-password"
	verificationPath  = "/auth/new-verification"
)

// NotifierConfig configures the MailNotifier.
type NotifierConfig struct {
	AppName  string
	BaseURL  string
	TokenTTL time.Duration
}

// MailNotifier renders account emails and hands them to a Mailer.
type MailNotifier struct {
	mailer    mail.Mailer
	templates *mail.Templates
	appName   string
	baseURL   string
	ttl       time.Duration
}

// NewMailNotifier constructs a MailNotifier; BaseURL is required to build links.
func NewMailNotifier(mailer mail.Mailer, templates *mail.Templates, cfg NotifierConfig) (*MailNotifier, error) {
	if mailer == nil {
		return nil, errors.New("mail notifier: mailer is required")
	}
	if templates == nil {
		return nil, errors.New("mail notifier: templates are required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("mail notifier: base url is required")
	}

	appName := strings.TrimSpace(cfg.AppName)
	if appName == "" {
		appName = "ReelHub"
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	return &MailNotifier{
		mailer:    mailer,
		templates: templates,
		appName:   appName,
		baseURL:   baseURL,
		ttl:       ttl,
	}, nil
}

func (n *MailNotifier) SendResetPasswordEmail(ctx context.Context, email, token string) error {
	return n.send(ctx, mail.TemplateResetPassword, "Reset your password", email, n.link(resetPasswordPath, token))
}

func (n *MailNotifier) SendVerificationEmail(ctx context.Context, email, token string) error {
	return n.send(ctx, mail.TemplateVerifyEmail, "Confirm your email", email, n.link(verificationPath, token))
}

func (n *MailNotifier) link(path, token string) string {
	return n.baseURL + path + "?token=" + url.QueryEscape(token)
}

func (n *MailNotifier) send(ctx context.Context, template, subject, email, link string) error {
	text, html, err := n.templates.Render(template, mail.TemplateVars{
		AppName: n.appName,
		Email:   email,
		Link:    link,
		TTL:     humanDuration(n.ttl),
	})
	if err != nil {
		return fmt.Errorf("mail notifier: %w", err)
	}

	err = n.mailer.Send(ctx, mail.Message{
		To:       []string{email},
		Subject:  subject,
		Body:     text,
		HTMLBody: html,
	})
	switch {
	case err == nil:
		metrics.EmailsSent.WithLabelValues(template, "sent").Inc()
		return nil
	case errors.Is(err, mail.ErrSMTPDisabled):
		metrics.EmailsSent.WithLabelValues(template, "disabled").Inc()
		logger.WithModule("mail").Warn("smtp disabled, email not delivered",
			zap.String("template", template),
			zap.String("email", email),
		)
		return nil
	default:
		metrics.EmailsSent.WithLabelValues(template, "failed").Inc()
		return fmt.Errorf("mail notifier: send %s: %w", template, err)
	}
}

func humanDuration(d time.Duration) string {
	switch {
	case d%time.Hour == 0 && d >= time.Hour:
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	case d%time.Minute == 0 && d >= time.Minute:
		minutes := int(d / time.Minute)
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	default:
		return d.String()
	}
}
