package models

import "time"

// Account roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account is a viewer or administrator of the streaming catalogue.
// Password is empty for accounts created without credentials.
type Account struct {
	BaseModel

	Name          string     `json:"name"`
	Email         string     `gorm:"uniqueIndex;not null" json:"email"`
	Password      string     `json:"-"`
	Role          string     `gorm:"not null;default:user" json:"role"`
	EmailVerified *time.Time `json:"email_verified"`
}

// IsVerified reports whether the account confirmed its email address.
func (a *Account) IsVerified() bool {
	return a != nil && a.EmailVerified != nil
}

// HasPassword reports whether the account can sign in with credentials.
func (a *Account) HasPassword() bool {
	return a != nil && a.Password != ""
}
