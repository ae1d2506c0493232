package database

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/reelhub/reelhub/internal/models"
)

// SeedOptions controls optional seed data. An empty AdminEmail skips the admin account.
type SeedOptions struct {
	AdminEmail        string
	AdminName         string
	AdminPasswordHash string
	Now               func() time.Time
}

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.VerificationToken{},
		&models.PasswordResetToken{},
		&models.AuditLog{},
		&models.CacheEntry{},
	)
}

// SeedData ensures the bootstrap administrator exists. Existing accounts are left untouched.
func SeedData(db *gorm.DB, opts SeedOptions) error {
	email := strings.ToLower(strings.TrimSpace(opts.AdminEmail))
	if email == "" {
		return nil
	}
	if opts.AdminPasswordHash == "" {
		return errors.New("seed admin: password hash is required")
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	verifiedAt := now()

	name := strings.TrimSpace(opts.AdminName)
	if name == "" {
		name = "Administrator"
	}

	admin := models.Account{
		Name:          name,
		Email:         email,
		Password:      opts.AdminPasswordHash,
		Role:          models.RoleAdmin,
		EmailVerified: &verifiedAt,
	}

	return db.Where(models.Account{Email: email}).Attrs(admin).FirstOrCreate(&models.Account{}).Error
}
