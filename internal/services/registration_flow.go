package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/reelhub/reelhub/internal/models"
	"github.com/reelhub/reelhub/internal/repository"
	"github.com/reelhub/reelhub/pkg/crypto"
	"github.com/reelhub/reelhub/pkg/validator"
)

const flowRegistration = "registration"

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=128"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// RegistrationOption customises the RegistrationFlow.
type RegistrationOption func(*RegistrationFlow)

// WithRegistrationRecorder sets the event sink.
func WithRegistrationRecorder(recorder EventRecorder) RegistrationOption {
	return func(f *RegistrationFlow) {
		f.events = recorder
	}
}

// WithRegistrationHashCost overrides the bcrypt cost used for new accounts.
func WithRegistrationHashCost(cost int) RegistrationOption {
	return func(f *RegistrationFlow) {
		f.hashCost = cost
	}
}

// RegistrationFlow creates unverified accounts and mails their confirmation link.
type RegistrationFlow struct {
	accounts AccountStore
	issuer   TokenIssuer
	notifier Notifier
	events   EventRecorder
	hashCost int
}

// NewRegistrationFlow constructs the flow over its collaborators.
func NewRegistrationFlow(accounts AccountStore, issuer TokenIssuer, notifier Notifier, opts ...RegistrationOption) (*RegistrationFlow, error) {
	if accounts == nil {
		return nil, errors.New("registration flow: account store is required")
	}
	if issuer == nil {
		return nil, errors.New("registration flow: token issuer is required")
	}
	if notifier == nil {
		return nil, errors.New("registration flow: notifier is required")
	}

	flow := &RegistrationFlow{accounts: accounts, issuer: issuer, notifier: notifier}
	for _, opt := range opts {
		opt(flow)
	}
	return flow, nil
}

// Register creates the account and sends the verification email.
func (f *RegistrationFlow) Register(ctx context.Context, input RegisterInput) (Result, error) {
	ctx = ensureContext(ctx)

	input.Name = strings.TrimSpace(input.Name)
	if err := validator.ValidateStruct(input); err != nil {
		emit(ctx, f.events, flowRegistration, ResultInvalidInput,
			errorEvent(EventRegistrationRejected, map[string]any{"reason": validator.Describe(err)}))
		return failure(ResultInvalidInput, MsgInvalidFields, validator.Describe(err)), nil
	}

	_, err := f.accounts.FindAccountByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return f.taken(ctx, input.Email), nil
	case !isNotFound(err):
		return Result{}, fmt.Errorf("registration flow: lookup account: %w", err)
	}

	hashed, err := crypto.HashPasswordWithCost(input.Password, f.hashCost)
	if err != nil {
		return Result{}, fmt.Errorf("registration flow: hash password: %w", err)
	}

	account := &models.Account{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Role:     models.RoleUser,
	}
	if err := f.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return f.taken(ctx, input.Email), nil
		}
		return Result{}, fmt.Errorf("registration flow: create account: %w", err)
	}

	token, err := f.issuer.IssueVerificationToken(ctx, account.Email)
	if err != nil {
		return Result{}, fmt.Errorf("registration flow: issue token: %w", err)
	}
	if err := f.notifier.SendVerificationEmail(ctx, token.Email, token.Token); err != nil {
		return Result{}, fmt.Errorf("registration flow: send email: %w", err)
	}

	emit(ctx, f.events, flowRegistration, ResultSuccess,
		infoEvent(EventRegistrationCreated, map[string]any{"email": account.Email, "account_id": account.ID}))
	return success(MsgConfirmationSent, account.Email), nil
}

func (f *RegistrationFlow) taken(ctx context.Context, email string) Result {
	emit(ctx, f.events, flowRegistration, ResultEmailTaken,
		errorEvent(EventRegistrationRejected, map[string]any{"reason": string(ResultEmailTaken), "email": email}))
	return failure(ResultEmailTaken, MsgEmailTaken, email)
}
