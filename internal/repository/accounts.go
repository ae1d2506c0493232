package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/reelhub/reelhub/internal/models"
)

// AccountUpdate lists the account columns a flow may change. Nil fields are left untouched.
type AccountUpdate struct {
	Email         *string
	EmailVerified *time.Time
	Password      *string
	Name          *string
}

// Accounts is the gorm-backed account store.
type Accounts struct {
	db *gorm.DB
}

// NewAccounts constructs an account store.
func NewAccounts(db *gorm.DB) (*Accounts, error) {
	if db == nil {
		return nil, errors.New("accounts repository: db is required")
	}
	return &Accounts{db: db}, nil
}

// FindAccountByEmail returns the account registered with email or ErrNotFound.
func (r *Accounts) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("email = ?", email).Take(&account).Error
	if err != nil {
		return nil, fmt.Errorf("accounts repository: find by email: %w", translate(err))
	}
	return &account, nil
}

// FindAccountByID returns the account with id or ErrNotFound.
func (r *Accounts) FindAccountByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&account).Error
	if err != nil {
		return nil, fmt.Errorf("accounts repository: find by id: %w", translate(err))
	}
	return &account, nil
}

// CreateAccount inserts account; a taken email yields ErrDuplicate.
func (r *Accounts) CreateAccount(ctx context.Context, account *models.Account) error {
	if account == nil {
		return errors.New("accounts repository: account is required")
	}
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return fmt.Errorf("accounts repository: create: %w", translate(err))
	}
	return nil
}

// UpdateAccount applies update to the account with id.
func (r *Accounts) UpdateAccount(ctx context.Context, id string, update AccountUpdate) error {
	updates := map[string]any{}
	if update.Email != nil {
		updates["email"] = *update.Email
	}
	if update.EmailVerified != nil {
		updates["email_verified"] = *update.EmailVerified
	}
	if update.Password != nil {
		updates["password"] = *update.Password
	}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("accounts repository: update: %w", translate(result.Error))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("accounts repository: update: %w", ErrNotFound)
	}
	return nil
}
