package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reelhub/reelhub/pkg/mail"
)

type recordingMailer struct {
	messages []mail.Message
	err      error
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.messages = append(m.messages, msg)
	return m.err
}

func newNotifierForTest(t *testing.T, mailer mail.Mailer) *MailNotifier {
	t.Helper()

	templates, err := mail.LoadTemplates()
	require.NoError(t, err)
	notifier, err := NewMailNotifier(mailer, templates, NotifierConfig{
		AppName:  "ReelHub",
		BaseURL:  "https://reelhub.test/",
		TokenTTL: time.Hour,
	})
	require.NoError(t, err)
	return notifier
}

func TestMailNotifierSendsResetLink(t *testing.T) {
	mailer := &recordingMailer{}
	notifier := newNotifierForTest(t, mailer)

	require.NoError(t, notifier.SendResetPasswordEmail(context.Background(), "a@x.com", "tok/+1"))
	require.Len(t, mailer.messages, 1)

	msg := mailer.messages[0]
	require.Equal(t, []string{"a@x.com"}, msg.To)
	require.Equal(t, "Reset your password", msg.Subject)
	require.Contains(t, msg.Body, "https://reelhub.test/auth/new-password?token=tok%2F%2B1")
	require.Contains(t, msg.Body, "1 hour")
	require.NotEmpty(t, msg.HTMLBody)
}

func TestMailNotifierSendsVerificationLink(t *testing.T) {
	mailer := &recordingMailer{}
	notifier := newNotifierForTest(t, mailer)

	require.NoError(t, notifier.SendVerificationEmail(context.Background(), "a@x.com", "abc"))
	require.Contains(t, mailer.messages[0].Body, "https://reelhub.test/auth/new-verification?token=abc")
}

func TestMailNotifierToleratesDisabledSMTP(t *testing.T) {
	notifier := newNotifierForTest(t, &recordingMailer{err: mail.ErrSMTPDisabled})

	require.NoError(t, notifier.SendVerificationEmail(context.Background(), "a@x.com", "abc"))
}

func TestMailNotifierPropagatesDeliveryFailure(t *testing.T) {
	fault := errors.New("dial tcp: connection refused")
	notifier := newNotifierForTest(t, &recordingMailer{err: fault})

	err := notifier.SendResetPasswordEmail(context.Background(), "a@x.com", "abc")
	require.ErrorIs(t, err, fault)
}

func TestNewMailNotifierRequiresBaseURL(t *testing.T) {
	templates, err := mail.LoadTemplates()
	require.NoError(t, err)

	_, err = NewMailNotifier(&recordingMailer{}, templates, NotifierConfig{})
	require.Error(t, err)
}

func TestHumanDuration(t *testing.T) {
	require.Equal(t, "1 hour", humanDuration(time.Hour))
	require.Equal(t, "24 hours", humanDuration(24*time.Hour))
	require.Equal(t, "30 minutes", humanDuration(30*time.Minute))
	require.Equal(t, "1 minute", humanDuration(time.Minute))
	require.Equal(t, "45s", humanDuration(45*time.Second))
}
