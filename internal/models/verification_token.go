package models

import "time"

// VerificationToken proves possession of an email address. It is consumed once.
type VerificationToken struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Email     string    `gorm:"not null;index;uniqueIndex:idx_verification_email_token" json:"email"`
	Token     string    `gorm:"not null;uniqueIndex;uniqueIndex:idx_verification_email_token" json:"-"`
	Expires   time.Time `gorm:"not null;index" json:"expires"`
	CreatedAt time.Time `json:"created_at"`
}

// ExpiredAt reports whether the token expired strictly before now; a token expiring at now is still valid.
func (t *VerificationToken) ExpiredAt(now time.Time) bool {
	return t.Expires.Before(now)
}
