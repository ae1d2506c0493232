package services

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/reelhub/reelhub/internal/models"
	"github.com/reelhub/reelhub/pkg/logger"
	"github.com/reelhub/reelhub/pkg/metrics"
)

// Event names emitted by the account flows.
const (
	EventVerificationTokenNotFound   = "verification.token_not_found"
	EventVerificationTokenExpired    = "verification.token_expired"
	EventVerificationAccountNotFound = "verification.account_not_found"
	EventVerificationSucceeded       = "verification.succeeded"

	EventResetInvalidInput    = "password_reset.invalid_input"
	EventResetAccountNotFound = "password_reset.account_not_found"
	EventResetEmailSent       = "password_reset.email_sent"

	EventNewPasswordRejected = "password_reset.new_password_rejected"
	EventPasswordUpdated     = "password_reset.password_updated"

	EventRegistrationRejected = "registration.rejected"
	EventRegistrationCreated  = "registration.created"

	EventLoginRejected         = "login.rejected"
	EventLoginVerificationSent = "login.verification_sent"
	EventLoginSucceeded        = "login.succeeded"
)

// Event is a structured observability record for one flow outcome.
type Event struct {
	Name     string
	Severity string
	Context  map[string]any
}

func infoEvent(name string, context map[string]any) Event {
	return Event{Name: name, Severity: models.SeverityInfo, Context: context}
}

func errorEvent(name string, context map[string]any) Event {
	return Event{Name: name, Severity: models.SeverityError, Context: context}
}

// LogRecorder writes events to the structured logger.
type LogRecorder struct {
	log *zap.Logger
}

// NewLogRecorder returns a recorder backed by log, or the module logger when nil.
func NewLogRecorder(log *zap.Logger) *LogRecorder {
	if log == nil {
		log = logger.WithModule("events")
	}
	return &LogRecorder{log: log}
}

func (r *LogRecorder) Record(_ context.Context, event Event) error {
	fields := make([]zap.Field, 0, len(event.Context)+1)
	fields = append(fields, zap.String("event", event.Name))
	for key, value := range event.Context {
		fields = append(fields, zap.Any(key, value))
	}

	if event.Severity == models.SeverityError {
		r.log.Warn("account flow rejected", fields...)
		return nil
	}
	r.log.Info("account flow completed", fields...)
	return nil
}

// MultiRecorder fans an event out to every recorder and joins their errors.
type MultiRecorder []EventRecorder

func (m MultiRecorder) Record(ctx context.Context, event Event) error {
	var errs error
	for _, recorder := range m {
		if recorder == nil {
			continue
		}
		if err := recorder.Record(ctx, event); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("record %s: %w", event.Name, err))
		}
	}
	return errs
}

// emit records an outcome event and counts the flow result. Recorder failures are
// logged and dropped so they never alter the flow's outcome.
func emit(ctx context.Context, recorder EventRecorder, flow string, kind ResultKind, event Event) {
	metrics.AuthFlowResults.WithLabelValues(flow, string(kind)).Inc()
	if recorder == nil {
		return
	}
	if err := recorder.Record(ctx, event); err != nil {
		logger.WithModule("events").Warn("failed to record event",
			zap.String("event", event.Name),
			zap.Error(err),
		)
	}
}
