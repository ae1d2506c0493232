package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/reelhub/reelhub/internal/models"
)

// PasswordResetTokens is the gorm-backed password reset token store.
type PasswordResetTokens struct {
	db *gorm.DB
}

// NewPasswordResetTokens constructs a password reset token store.
func NewPasswordResetTokens(db *gorm.DB) (*PasswordResetTokens, error) {
	if db == nil {
		return nil, errors.New("password reset tokens repository: db is required")
	}
	return &PasswordResetTokens{db: db}, nil
}

func (r *PasswordResetTokens) FindPasswordResetTokenByToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	var record models.PasswordResetToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).Take(&record).Error; err != nil {
		return nil, fmt.Errorf("password reset tokens repository: find by token: %w", translate(err))
	}
	return &record, nil
}

func (r *PasswordResetTokens) CreatePasswordResetToken(ctx context.Context, token *models.PasswordResetToken) error {
	if token == nil {
		return errors.New("password reset tokens repository: token is required")
	}
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("password reset tokens repository: create: %w", translate(err))
	}
	return nil
}

func (r *PasswordResetTokens) DeletePasswordResetToken(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PasswordResetToken{}).Error; err != nil {
		return fmt.Errorf("password reset tokens repository: delete: %w", translate(err))
	}
	return nil
}

func (r *PasswordResetTokens) DeletePasswordResetTokensByEmail(ctx context.Context, email string) error {
	if err := r.db.WithContext(ctx).Where("email = ?", email).Delete(&models.PasswordResetToken{}).Error; err != nil {
		return fmt.Errorf("password reset tokens repository: delete by email: %w", translate(err))
	}
	return nil
}

func (r *PasswordResetTokens) PurgeExpiredPasswordResetTokens(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires < ?", now).Delete(&models.PasswordResetToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("password reset tokens repository: purge: %w", result.Error)
	}
	return result.RowsAffected, nil
}
