package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/reelhub/reelhub/internal/models"
)

// VerificationTokens is the gorm-backed verification token store.
type VerificationTokens struct {
	db *gorm.DB
}

// NewVerificationTokens constructs a verification token store.
func NewVerificationTokens(db *gorm.DB) (*VerificationTokens, error) {
	if db == nil {
		return nil, errors.New("verification tokens repository: db is required")
	}
	return &VerificationTokens{db: db}, nil
}

func (r *VerificationTokens) FindVerificationTokenByToken(ctx context.Context, token string) (*models.VerificationToken, error) {
	var record models.VerificationToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).Take(&record).Error; err != nil {
		return nil, fmt.Errorf("verification tokens repository: find by token: %w", translate(err))
	}
	return &record, nil
}

func (r *VerificationTokens) CreateVerificationToken(ctx context.Context, token *models.VerificationToken) error {
	if token == nil {
		return errors.New("verification tokens repository: token is required")
	}
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("verification tokens repository: create: %w", translate(err))
	}
	return nil
}

// DeleteVerificationToken removes the token with id. Deleting a missing token is not an error.
func (r *VerificationTokens) DeleteVerificationToken(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.VerificationToken{}).Error; err != nil {
		return fmt.Errorf("verification tokens repository: delete: %w", translate(err))
	}
	return nil
}

// DeleteVerificationTokensByEmail removes every token issued to email.
func (r *VerificationTokens) DeleteVerificationTokensByEmail(ctx context.Context, email string) error {
	if err := r.db.WithContext(ctx).Where("email = ?", email).Delete(&models.VerificationToken{}).Error; err != nil {
		return fmt.Errorf("verification tokens repository: delete by email: %w", translate(err))
	}
	return nil
}

// PurgeExpiredVerificationTokens deletes tokens that expired before now and reports how many were removed.
func (r *VerificationTokens) PurgeExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires < ?", now).Delete(&models.VerificationToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("verification tokens repository: purge: %w", result.Error)
	}
	return result.RowsAffected, nil
}
