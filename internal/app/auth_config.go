package app

import (
	"fmt"
	"strings"

	"github.com/reelhub/reelhub/internal/auth"
	"github.com/reelhub/reelhub/internal/database"
	"github.com/reelhub/reelhub/internal/middleware"
	"github.com/reelhub/reelhub/internal/services"
	"github.com/reelhub/reelhub/pkg/crypto"
)

// JWTServiceConfig converts AuthConfig into the parameters expected by the JWT service.
func (c AuthConfig) JWTServiceConfig() auth.JWTConfig {
	ttl := c.JWT.TTL
	if ttl <= 0 {
		ttl = auth.DefaultAccessTokenTTL
	}

	return auth.JWTConfig{
		Secret:         c.JWT.Secret,
		Issuer:         c.JWT.Issuer,
		AccessTokenTTL: ttl,
	}
}

// TokenServiceOptions converts the token settings into TokenService options.
// Zero values fall back to the service defaults.
func (c AuthConfig) TokenServiceOptions() []services.TokenOption {
	return []services.TokenOption{
		services.WithTokenTTL(c.Tokens.TTL),
		services.WithTokenSize(c.Tokens.Bytes),
	}
}

// RateLimitConfig converts the rate limit settings for the middleware.
func (c AuthConfig) RateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Requests: c.RateLimit.Requests,
		Window:   c.RateLimit.Window,
	}
}

// SeedOptions hashes the configured admin password and returns the database seed options.
func (c AuthConfig) SeedOptions() (database.SeedOptions, error) {
	email := strings.TrimSpace(c.Admin.Email)
	if email == "" {
		return database.SeedOptions{}, nil
	}
	if c.Admin.Password == "" {
		return database.SeedOptions{}, fmt.Errorf("auth.admin.password is required when auth.admin.email is set")
	}

	hash, err := crypto.HashPassword(c.Admin.Password)
	if err != nil {
		return database.SeedOptions{}, fmt.Errorf("hash admin password: %w", err)
	}

	return database.SeedOptions{
		AdminEmail:        email,
		AdminName:         strings.TrimSpace(c.Admin.Name),
		AdminPasswordHash: hash,
	}, nil
}
