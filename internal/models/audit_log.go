package models

import "time"

// Audit severities.
const (
	SeverityInfo  = "info"
	SeverityError = "error"
)

// AuditLog persists one observability event emitted by an account flow.
type AuditLog struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Event     string    `gorm:"not null;index" json:"event"`
	Severity  string    `gorm:"not null;index" json:"severity"`
	Context   string    `gorm:"type:text" json:"context"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
