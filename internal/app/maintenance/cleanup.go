package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/reelhub/reelhub/pkg/logger"
	"github.com/reelhub/reelhub/pkg/metrics"
)

const (
	defaultAuditRetentionDays = 90
	defaultTokenSpec          = "@hourly"
	defaultAuditSpec          = "@daily"
	defaultCacheSpec          = "@every 15m"
)

// VerificationTokenPurger removes expired verification tokens.
type VerificationTokenPurger interface {
	PurgeExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error)
}

// PasswordResetTokenPurger removes expired password reset tokens.
type PasswordResetTokenPurger interface {
	PurgeExpiredPasswordResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// AuditPruner drops audit entries older than the retention window.
type AuditPruner interface {
	CleanupOlderThan(ctx context.Context, retentionDays int) (int64, error)
}

// CachePurger drops expired cache rows.
type CachePurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Cleaner coordinates background maintenance: purging expired tokens, pruning stale audit
// logs and removing expired database cache entries.
type Cleaner struct {
	verification VerificationTokenPurger
	reset        PasswordResetTokenPurger
	audit        AuditPruner
	cache        CachePurger

	cron      *cron.Cron
	now       func() time.Time
	log       *zap.Logger
	retention int

	tokenSchedule string
	auditSchedule string
	cacheSchedule string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for expiry comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithAuditPruner enables audit retention enforcement.
func WithAuditPruner(audit AuditPruner, retentionDays int) Option {
	return func(cleaner *Cleaner) {
		cleaner.audit = audit
		if retentionDays > 0 {
			cleaner.retention = retentionDays
		}
	}
}

// WithCachePurger enables removal of expired database cache entries.
func WithCachePurger(cache CachePurger) Option {
	return func(cleaner *Cleaner) {
		cleaner.cache = cache
	}
}

// WithSchedules overrides the cron specifications. Empty values keep the defaults.
func WithSchedules(tokens, audit, cache string) Option {
	return func(cleaner *Cleaner) {
		if tokens != "" {
			cleaner.tokenSchedule = tokens
		}
		if audit != "" {
			cleaner.auditSchedule = audit
		}
		if cache != "" {
			cleaner.cacheSchedule = cache
		}
	}
}

// NewCleaner constructs a Cleaner. Any nil dependency results in the corresponding job being skipped.
func NewCleaner(verification VerificationTokenPurger, reset PasswordResetTokenPurger, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		verification:  verification,
		reset:         reset,
		now:           time.Now,
		retention:     defaultAuditRetentionDays,
		tokenSchedule: defaultTokenSpec,
		auditSchedule: defaultAuditSpec,
		cacheSchedule: defaultCacheSpec,
		log:           logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers cleanup jobs with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	jobs := 0

	if c.verification != nil || c.reset != nil {
		if _, err := c.cron.AddFunc(c.tokenSchedule, func() {
			if _, err := c.CleanupTokens(context.Background()); err != nil {
				c.log.Warn("token cleanup failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
		jobs++
	}

	if c.audit != nil && c.retention > 0 {
		if _, err := c.cron.AddFunc(c.auditSchedule, func() {
			if _, err := c.audit.CleanupOlderThan(context.Background(), c.retention); err != nil {
				c.log.Warn("audit cleanup failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
		jobs++
	}

	if c.cache != nil {
		if _, err := c.cron.AddFunc(c.cacheSchedule, func() {
			if _, err := c.cache.PurgeExpired(context.Background()); err != nil {
				c.log.Warn("cache cleanup failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
		jobs++
	}

	if jobs == 0 {
		return nil
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler. The returned context is done once running jobs complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes all configured cleanup routines sequentially.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if _, err := c.CleanupTokens(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}

	if c.audit != nil && c.retention > 0 {
		if _, err := c.audit.CleanupOlderThan(ctx, c.retention); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if c.cache != nil {
		if _, err := c.cache.PurgeExpired(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}

// TokenCleanupStats captures the number of records removed for each token type.
type TokenCleanupStats struct {
	Verification  int64
	PasswordReset int64
}

// CleanupTokens removes tokens that expired before now. Both stores are attempted even
// when the first one fails.
func (c *Cleaner) CleanupTokens(ctx context.Context) (TokenCleanupStats, error) {
	now := c.now()
	stats := TokenCleanupStats{}
	var errs error

	if c.verification != nil {
		removed, err := c.verification.PurgeExpiredVerificationTokens(ctx, now)
		errs = multierr.Append(errs, err)
		stats.Verification = removed
		metrics.TokensPurged.WithLabelValues("verification").Add(float64(removed))
	}

	if c.reset != nil {
		removed, err := c.reset.PurgeExpiredPasswordResetTokens(ctx, now)
		errs = multierr.Append(errs, err)
		stats.PasswordReset = removed
		metrics.TokensPurged.WithLabelValues("password_reset").Add(float64(removed))
	}

	if stats.Verification+stats.PasswordReset > 0 {
		c.log.Info("expired tokens purged",
			zap.Int64("verification", stats.Verification),
			zap.Int64("password_reset", stats.PasswordReset),
		)
	}

	return stats, errs
}
