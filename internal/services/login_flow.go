package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/reelhub/reelhub/internal/auth"
	"github.com/reelhub/reelhub/pkg/crypto"
	"github.com/reelhub/reelhub/pkg/validator"
)

const flowLogin = "login"

// LoginInput is the credentials payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult extends Result with the access token issued on success.
type LoginResult struct {
	Result
	AccessToken auth.AccessToken
}

// AccessTokenIssuer signs access tokens for authenticated accounts.
type AccessTokenIssuer interface {
	IssueAccessToken(input auth.AccessTokenInput) (auth.AccessToken, error)
}

// LoginOption customises the LoginFlow.
type LoginOption func(*LoginFlow)

// WithLoginRecorder sets the event sink.
func WithLoginRecorder(recorder EventRecorder) LoginOption {
	return func(f *LoginFlow) {
		f.events = recorder
	}
}

// LoginFlow authenticates credentials. Unverified accounts receive a fresh
// verification email instead of a session.
type LoginFlow struct {
	accounts AccountStore
	issuer   TokenIssuer
	notifier Notifier
	tokens   AccessTokenIssuer
	events   EventRecorder
}

// NewLoginFlow constructs the flow over its collaborators.
func NewLoginFlow(accounts AccountStore, issuer TokenIssuer, notifier Notifier, tokens AccessTokenIssuer, opts ...LoginOption) (*LoginFlow, error) {
	if accounts == nil {
		return nil, errors.New("login flow: account store is required")
	}
	if issuer == nil {
		return nil, errors.New("login flow: token issuer is required")
	}
	if notifier == nil {
		return nil, errors.New("login flow: notifier is required")
	}
	if tokens == nil {
		return nil, errors.New("login flow: access token issuer is required")
	}

	flow := &LoginFlow{accounts: accounts, issuer: issuer, notifier: notifier, tokens: tokens}
	for _, opt := range opts {
		opt(flow)
	}
	return flow, nil
}

// Login checks the credentials and issues an access token.
func (f *LoginFlow) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	ctx = ensureContext(ctx)

	reject := func(kind ResultKind, message, detail string) LoginResult {
		emit(ctx, f.events, flowLogin, kind,
			errorEvent(EventLoginRejected, map[string]any{"reason": string(kind), "email": input.Email}))
		return LoginResult{Result: failure(kind, message, detail)}
	}

	if err := validator.ValidateStruct(input); err != nil {
		return reject(ResultInvalidInput, MsgInvalidFields, validator.Describe(err)), nil
	}

	account, err := f.accounts.FindAccountByEmail(ctx, input.Email)
	if err != nil {
		if !isNotFound(err) {
			return LoginResult{}, fmt.Errorf("login flow: lookup account: %w", err)
		}
		return reject(ResultAccountNotFound, MsgEmailDoesNotExist, input.Email), nil
	}
	if !account.HasPassword() {
		return reject(ResultAccountNotFound, MsgEmailDoesNotExist, input.Email), nil
	}

	if !account.IsVerified() {
		token, err := f.issuer.IssueVerificationToken(ctx, account.Email)
		if err != nil {
			return LoginResult{}, fmt.Errorf("login flow: issue token: %w", err)
		}
		if err := f.notifier.SendVerificationEmail(ctx, token.Email, token.Token); err != nil {
			return LoginResult{}, fmt.Errorf("login flow: send email: %w", err)
		}
		emit(ctx, f.events, flowLogin, ResultVerificationSent,
			infoEvent(EventLoginVerificationSent, map[string]any{"email": account.Email}))
		return LoginResult{Result: Result{Kind: ResultVerificationSent, Message: MsgConfirmationSent, Email: account.Email}}, nil
	}

	if !crypto.VerifyPassword(account.Password, input.Password) {
		return reject(ResultInvalidCredentials, MsgInvalidCredentials, input.Email), nil
	}

	access, err := f.tokens.IssueAccessToken(auth.AccessTokenInput{
		AccountID: account.ID,
		Email:     account.Email,
		Role:      account.Role,
	})
	if err != nil {
		return LoginResult{}, fmt.Errorf("login flow: issue access token: %w", err)
	}

	emit(ctx, f.events, flowLogin, ResultSuccess,
		infoEvent(EventLoginSucceeded, map[string]any{"email": account.Email, "account_id": account.ID}))
	return LoginResult{Result: success(MsgSignedIn, account.Email), AccessToken: access}, nil
}
