package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reelhub/reelhub/internal/repository"
)

const flowVerification = "verification"

// VerificationFlowOption customises the VerificationFlow.
type VerificationFlowOption func(*VerificationFlow)

// WithVerificationClock injects a custom time source.
func WithVerificationClock(clock func() time.Time) VerificationFlowOption {
	return func(f *VerificationFlow) {
		f.now = clockOrDefault(clock)
	}
}

// WithVerificationRecorder sets the event sink.
func WithVerificationRecorder(recorder EventRecorder) VerificationFlowOption {
	return func(f *VerificationFlow) {
		f.events = recorder
	}
}

// VerificationFlow consumes email verification tokens.
type VerificationFlow struct {
	tokens   VerificationTokenStore
	accounts AccountStore
	events   EventRecorder
	now      func() time.Time
}

// NewVerificationFlow constructs the flow over its stores.
func NewVerificationFlow(tokens VerificationTokenStore, accounts AccountStore, opts ...VerificationFlowOption) (*VerificationFlow, error) {
	if tokens == nil {
		return nil, errors.New("verification flow: token store is required")
	}
	if accounts == nil {
		return nil, errors.New("verification flow: account store is required")
	}

	flow := &VerificationFlow{tokens: tokens, accounts: accounts, now: time.Now}
	for _, opt := range opts {
		opt(flow)
	}
	return flow, nil
}

// VerifyEmail marks the token's account as verified and consumes the token.
// The account's email is rewritten to the token's email so that a pending
// address change takes effect on verification.
func (f *VerificationFlow) VerifyEmail(ctx context.Context, token string) (Result, error) {
	ctx = ensureContext(ctx)

	existing, err := f.tokens.FindVerificationTokenByToken(ctx, token)
	if err != nil {
		if !isNotFound(err) {
			return Result{}, fmt.Errorf("verification flow: lookup token: %w", err)
		}
		emit(ctx, f.events, flowVerification, ResultTokenNotFound,
			errorEvent(EventVerificationTokenNotFound, map[string]any{"token": token}))
		return failure(ResultTokenNotFound, MsgTokenNotFound, token), nil
	}

	now := f.now()
	if existing.ExpiredAt(now) {
		emit(ctx, f.events, flowVerification, ResultTokenExpired,
			errorEvent(EventVerificationTokenExpired, map[string]any{"token": token, "expires": existing.Expires}))
		return failure(ResultTokenExpired, MsgTokenExpired, token), nil
	}

	account, err := f.accounts.FindAccountByEmail(ctx, existing.Email)
	if err != nil {
		if !isNotFound(err) {
			return Result{}, fmt.Errorf("verification flow: lookup account: %w", err)
		}
		emit(ctx, f.events, flowVerification, ResultAccountNotFound,
			errorEvent(EventVerificationAccountNotFound, map[string]any{"email": existing.Email}))
		return failure(ResultAccountNotFound, MsgVerifyNoAccount, existing.Email), nil
	}

	email := existing.Email
	if err := f.accounts.UpdateAccount(ctx, account.ID, repository.AccountUpdate{
		EmailVerified: &now,
		Email:         &email,
	}); err != nil {
		return Result{}, fmt.Errorf("verification flow: mark verified: %w", err)
	}

	if err := f.tokens.DeleteVerificationToken(ctx, existing.ID); err != nil {
		return Result{}, fmt.Errorf("verification flow: delete token: %w", err)
	}

	emit(ctx, f.events, flowVerification, ResultSuccess,
		infoEvent(EventVerificationSucceeded, map[string]any{"email": email, "account_id": account.ID}))
	return success(MsgEmailVerified, email), nil
}
