package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reelhub/reelhub/internal/repository"
	"github.com/reelhub/reelhub/pkg/crypto"
	"github.com/reelhub/reelhub/pkg/validator"
)

const (
	flowPasswordReset = "password_reset"
	flowNewPassword   = "new_password"
)

// ResetInput is the payload of a password reset request.
type ResetInput struct {
	Email string `json:"email" validate:"required,email"`
}

// NewPasswordInput is the payload that completes a password reset.
type NewPasswordInput struct {
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// PasswordResetOption customises the PasswordResetFlow.
type PasswordResetOption func(*PasswordResetFlow)

// WithPasswordResetClock injects a custom time source.
func WithPasswordResetClock(clock func() time.Time) PasswordResetOption {
	return func(f *PasswordResetFlow) {
		f.now = clockOrDefault(clock)
	}
}

// WithPasswordResetRecorder sets the event sink.
func WithPasswordResetRecorder(recorder EventRecorder) PasswordResetOption {
	return func(f *PasswordResetFlow) {
		f.events = recorder
	}
}

// WithPasswordResetTokens enables ResetPassword by supplying the reset token store.
func WithPasswordResetTokens(tokens PasswordResetTokenStore) PasswordResetOption {
	return func(f *PasswordResetFlow) {
		f.tokens = tokens
	}
}

// WithPasswordHashCost overrides the bcrypt cost used for new passwords.
func WithPasswordHashCost(cost int) PasswordResetOption {
	return func(f *PasswordResetFlow) {
		f.hashCost = cost
	}
}

// PasswordResetFlow issues reset tokens and applies new passwords.
type PasswordResetFlow struct {
	accounts AccountStore
	issuer   TokenIssuer
	notifier Notifier
	tokens   PasswordResetTokenStore
	events   EventRecorder
	hashCost int
	now      func() time.Time
}

// NewPasswordResetFlow constructs the flow over its collaborators.
func NewPasswordResetFlow(accounts AccountStore, issuer TokenIssuer, notifier Notifier, opts ...PasswordResetOption) (*PasswordResetFlow, error) {
	if accounts == nil {
		return nil, errors.New("password reset flow: account store is required")
	}
	if issuer == nil {
		return nil, errors.New("password reset flow: token issuer is required")
	}
	if notifier == nil {
		return nil, errors.New("password reset flow: notifier is required")
	}

	flow := &PasswordResetFlow{accounts: accounts, issuer: issuer, notifier: notifier, now: time.Now}
	for _, opt := range opts {
		opt(flow)
	}
	return flow, nil
}

// RequestPasswordReset mails a reset link to a registered email address.
func (f *PasswordResetFlow) RequestPasswordReset(ctx context.Context, input ResetInput) (Result, error) {
	ctx = ensureContext(ctx)

	if err := validator.ValidateStruct(input); err != nil {
		emit(ctx, f.events, flowPasswordReset, ResultInvalidInput,
			errorEvent(EventResetInvalidInput, map[string]any{"input": input.Email, "reason": validator.Describe(err)}))
		return failure(ResultInvalidInput, MsgInvalidEmail, input.Email), nil
	}
	email := input.Email

	if _, err := f.accounts.FindAccountByEmail(ctx, email); err != nil {
		if !isNotFound(err) {
			return Result{}, fmt.Errorf("password reset flow: lookup account: %w", err)
		}
		emit(ctx, f.events, flowPasswordReset, ResultAccountNotFound,
			errorEvent(EventResetAccountNotFound, map[string]any{"email": email}))
		return failure(ResultAccountNotFound, MsgEmailNotFound, email), nil
	}

	token, err := f.issuer.IssuePasswordResetToken(ctx, email)
	if err != nil {
		return Result{}, fmt.Errorf("password reset flow: issue token: %w", err)
	}

	if err := f.notifier.SendResetPasswordEmail(ctx, token.Email, token.Token); err != nil {
		return Result{}, fmt.Errorf("password reset flow: send email: %w", err)
	}

	emit(ctx, f.events, flowPasswordReset, ResultSuccess,
		infoEvent(EventResetEmailSent, map[string]any{"email": token.Email, "token": crypto.Fingerprint(token.Token)}))
	return success(MsgResetEmailSent, token.Email), nil
}

// ResetPassword consumes a reset token and stores the new password hash.
func (f *PasswordResetFlow) ResetPassword(ctx context.Context, token string, input NewPasswordInput) (Result, error) {
	ctx = ensureContext(ctx)
	if f.tokens == nil {
		return Result{}, errors.New("password reset flow: reset token store is not configured")
	}

	reject := func(kind ResultKind, message, detail string) Result {
		emit(ctx, f.events, flowNewPassword, kind,
			errorEvent(EventNewPasswordRejected, map[string]any{"reason": string(kind), "token": crypto.Fingerprint(token)}))
		return failure(kind, message, detail)
	}

	if token == "" {
		return reject(ResultTokenNotFound, MsgMissingToken, ""), nil
	}
	if err := validator.ValidateStruct(input); err != nil {
		return reject(ResultInvalidInput, MsgInvalidFields, validator.Describe(err)), nil
	}

	existing, err := f.tokens.FindPasswordResetTokenByToken(ctx, token)
	if err != nil {
		if !isNotFound(err) {
			return Result{}, fmt.Errorf("password reset flow: lookup token: %w", err)
		}
		return reject(ResultTokenNotFound, MsgInvalidToken, token), nil
	}

	if existing.ExpiredAt(f.now()) {
		return reject(ResultTokenExpired, MsgTokenExpired, token), nil
	}

	account, err := f.accounts.FindAccountByEmail(ctx, existing.Email)
	if err != nil {
		if !isNotFound(err) {
			return Result{}, fmt.Errorf("password reset flow: lookup account: %w", err)
		}
		return reject(ResultAccountNotFound, MsgEmailDoesNotExist, existing.Email), nil
	}

	hashed, err := crypto.HashPasswordWithCost(input.Password, f.hashCost)
	if err != nil {
		return Result{}, fmt.Errorf("password reset flow: hash password: %w", err)
	}
	if err := f.accounts.UpdateAccount(ctx, account.ID, repository.AccountUpdate{Password: &hashed}); err != nil {
		return Result{}, fmt.Errorf("password reset flow: update password: %w", err)
	}
	if err := f.tokens.DeletePasswordResetToken(ctx, existing.ID); err != nil {
		return Result{}, fmt.Errorf("password reset flow: delete token: %w", err)
	}

	emit(ctx, f.events, flowNewPassword, ResultSuccess,
		infoEvent(EventPasswordUpdated, map[string]any{"email": existing.Email, "account_id": account.ID}))
	return success(MsgPasswordUpdated, existing.Email), nil
}
