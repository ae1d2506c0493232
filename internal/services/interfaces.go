package services

import (
	"context"

	"github.com/reelhub/reelhub/internal/models"
	"github.com/reelhub/reelhub/internal/repository"
)

// VerificationTokenStore persists email verification tokens.
// Lookups that match nothing return an error wrapping repository.ErrNotFound.
type VerificationTokenStore interface {
	FindVerificationTokenByToken(ctx context.Context, token string) (*models.VerificationToken, error)
	CreateVerificationToken(ctx context.Context, token *models.VerificationToken) error
	DeleteVerificationToken(ctx context.Context, id string) error
	DeleteVerificationTokensByEmail(ctx context.Context, email string) error
}

// PasswordResetTokenStore persists password reset tokens.
type PasswordResetTokenStore interface {
	FindPasswordResetTokenByToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	CreatePasswordResetToken(ctx context.Context, token *models.PasswordResetToken) error
	DeletePasswordResetToken(ctx context.Context, id string) error
	DeletePasswordResetTokensByEmail(ctx context.Context, email string) error
}

// AccountStore persists accounts.
type AccountStore interface {
	FindAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	FindAccountByID(ctx context.Context, id string) (*models.Account, error)
	CreateAccount(ctx context.Context, account *models.Account) error
	UpdateAccount(ctx context.Context, id string, update repository.AccountUpdate) error
}

// TokenIssuer mints fresh single-use tokens for an email address.
type TokenIssuer interface {
	IssuePasswordResetToken(ctx context.Context, email string) (*models.PasswordResetToken, error)
	IssueVerificationToken(ctx context.Context, email string) (*models.VerificationToken, error)
}

// Notifier delivers account emails.
type Notifier interface {
	SendResetPasswordEmail(ctx context.Context, email, token string) error
	SendVerificationEmail(ctx context.Context, email, token string) error
}

// EventRecorder receives one event per flow outcome.
type EventRecorder interface {
	Record(ctx context.Context, event Event) error
}

var (
	_ VerificationTokenStore  = (*repository.VerificationTokens)(nil)
	_ PasswordResetTokenStore = (*repository.PasswordResetTokens)(nil)
	_ AccountStore            = (*repository.Accounts)(nil)
)
