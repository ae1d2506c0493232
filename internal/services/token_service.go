package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reelhub/reelhub/internal/models"
	"github.com/reelhub/reelhub/pkg/crypto"
)

const (
	defaultTokenTTL   = time.Hour
	defaultTokenBytes = 32
)

// TokenOption customises the TokenService.
type TokenOption func(*TokenService)

// WithTokenTTL overrides the lifetime of issued tokens.
func WithTokenTTL(d time.Duration) TokenOption {
	return func(s *TokenService) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithTokenSize adjusts the number of random bytes in generated tokens.
func WithTokenSize(size int) TokenOption {
	return func(s *TokenService) {
		if size > 0 {
			s.tokenBytes = size
		}
	}
}

// WithTokenClock injects a custom time source.
func WithTokenClock(clock func() time.Time) TokenOption {
	return func(s *TokenService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// TokenService issues verification and password reset tokens. Issuing a token
// replaces whatever token of the same kind the email held before.
type TokenService struct {
	verification VerificationTokenStore
	reset        PasswordResetTokenStore
	ttl          time.Duration
	tokenBytes   int
	now          func() time.Time
}

// NewTokenService constructs a TokenService over the two token stores.
func NewTokenService(verification VerificationTokenStore, reset PasswordResetTokenStore, opts ...TokenOption) (*TokenService, error) {
	if verification == nil {
		return nil, errors.New("token service: verification store is required")
	}
	if reset == nil {
		return nil, errors.New("token service: reset store is required")
	}

	service := &TokenService{
		verification: verification,
		reset:        reset,
		ttl:          defaultTokenTTL,
		tokenBytes:   defaultTokenBytes,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// TTL returns the lifetime applied to issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// IssueVerificationToken creates a fresh verification token for email.
func (s *TokenService) IssueVerificationToken(ctx context.Context, email string) (*models.VerificationToken, error) {
	ctx = ensureContext(ctx)

	if err := s.verification.DeleteVerificationTokensByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("token service: delete previous verification tokens: %w", err)
	}

	value, err := crypto.GenerateToken(s.tokenBytes)
	if err != nil {
		return nil, fmt.Errorf("token service: generate token: %w", err)
	}

	token := &models.VerificationToken{
		Email:   email,
		Token:   value,
		Expires: s.now().Add(s.ttl),
	}
	if err := s.verification.CreateVerificationToken(ctx, token); err != nil {
		return nil, fmt.Errorf("token service: create verification token: %w", err)
	}
	return token, nil
}

// IssuePasswordResetToken creates a fresh password reset token for email.
func (s *TokenService) IssuePasswordResetToken(ctx context.Context, email string) (*models.PasswordResetToken, error) {
	ctx = ensureContext(ctx)

	if err := s.reset.DeletePasswordResetTokensByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("token service: delete previous reset tokens: %w", err)
	}

	value, err := crypto.GenerateToken(s.tokenBytes)
	if err != nil {
		return nil, fmt.Errorf("token service: generate token: %w", err)
	}

	token := &models.PasswordResetToken{
		Email:   email,
		Token:   value,
		Expires: s.now().Add(s.ttl),
	}
	if err := s.reset.CreatePasswordResetToken(ctx, token); err != nil {
		return nil, fmt.Errorf("token service: create reset token: %w", err)
	}
	return token, nil
}
