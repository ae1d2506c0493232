package models

import "time"

// CacheEntry backs the shared cache and rate counters when Redis is not configured.
// A zero ExpiresAt never expires.
type CacheEntry struct {
	Key       string    `gorm:"primaryKey;size:256"`
	Value     []byte    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Live reports whether the entry is still valid at now.
func (e *CacheEntry) Live(now time.Time) bool {
	return e.ExpiresAt.IsZero() || !now.After(e.ExpiresAt)
}
