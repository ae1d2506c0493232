package models

import "time"

// PasswordResetToken authorises a single password change for Email.
type PasswordResetToken struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Email     string    `gorm:"not null;index;uniqueIndex:idx_reset_email_token" json:"email"`
	Token     string    `gorm:"not null;uniqueIndex;uniqueIndex:idx_reset_email_token" json:"-"`
	Expires   time.Time `gorm:"not null;index" json:"expires"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *PasswordResetToken) ExpiredAt(now time.Time) bool {
	return t.Expires.Before(now)
}
