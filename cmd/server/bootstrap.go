package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/reelhub/reelhub/internal/api"
	"github.com/reelhub/reelhub/internal/app"
	"github.com/reelhub/reelhub/internal/app/maintenance"
	iauth "github.com/reelhub/reelhub/internal/auth"
	"github.com/reelhub/reelhub/internal/cache"
	"github.com/reelhub/reelhub/internal/handlers"
	"github.com/reelhub/reelhub/internal/repository"
	"github.com/reelhub/reelhub/internal/services"
	"github.com/reelhub/reelhub/pkg/mail"
)

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB        *gorm.DB
	Redis     *cache.RedisStore
	RateStore cache.Store
	Audit     *services.AuditService
	Cleaner   *maintenance.Cleaner
	Router    *gin.Engine
}

// bootstrapRuntime initialises the database, caches, account flows and the HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(context.Background(), log)
		}
	}()

	// GIN_DEBUG=true keeps gin in debug mode
	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	dbStore, err := cache.NewDatabaseStore(stack.DB)
	if err != nil {
		return nil, fmt.Errorf("initialise database cache: %w", err)
	}

	if cfg.Cache.Redis.Enabled {
		if stack.Redis, err = cache.NewRedisStore(ctx, cfg.Cache.RedisClientConfig()); err != nil {
			log.Warn("redis unavailable; falling back to database-backed operations", zap.Error(err))
			stack.Redis = nil
		} else {
			log.Info("redis connected", zap.String("addr", cfg.Cache.Redis.Address))
		}
	}
	stack.RateStore = selectRateStore(cfg, stack.Redis, dbStore)

	accounts, err := repository.NewAccounts(stack.DB)
	if err != nil {
		return nil, err
	}
	verificationTokens, err := repository.NewVerificationTokens(stack.DB)
	if err != nil {
		return nil, err
	}
	resetTokens, err := repository.NewPasswordResetTokens(stack.DB)
	if err != nil {
		return nil, err
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise jwt service: %w", err)
	}

	stack.Audit, err = services.NewAuditService(stack.DB)
	if err != nil {
		return nil, fmt.Errorf("initialise audit service: %w", err)
	}
	recorder := services.MultiRecorder{services.NewLogRecorder(nil), stack.Audit}

	issuer, err := services.NewTokenService(verificationTokens, resetTokens, cfg.Auth.TokenServiceOptions()...)
	if err != nil {
		return nil, fmt.Errorf("initialise token service: %w", err)
	}

	notifier, err := buildNotifier(cfg, issuer.TTL())
	if err != nil {
		return nil, err
	}

	flows, err := buildAuthFlows(accounts, verificationTokens, resetTokens, issuer, notifier, jwtSvc, recorder)
	if err != nil {
		return nil, err
	}

	authHandler, err := handlers.NewAuthHandler(flows)
	if err != nil {
		return nil, err
	}

	stack.Cleaner = maintenance.NewCleaner(verificationTokens, resetTokens,
		maintenance.WithAuditPruner(stack.Audit, cfg.Maintenance.AuditRetentionDays),
		maintenance.WithCachePurger(dbStore),
		maintenance.WithSchedules(cfg.Maintenance.TokenSchedule, cfg.Maintenance.AuditSchedule, cfg.Maintenance.CacheSchedule),
	)
	if err := stack.Cleaner.Start(); err != nil {
		return nil, fmt.Errorf("start maintenance jobs: %w", err)
	}

	healthChecks := map[string]handlers.Pinger{}
	if stack.Redis != nil {
		healthChecks["redis"] = stack.Redis
	}

	stack.Router, err = api.NewRouter(api.Dependencies{
		DB:             stack.DB,
		JWT:            jwtSvc,
		Auth:           authHandler,
		Audit:          handlers.NewAuditHandler(stack.Audit),
		RateStore:      stack.RateStore,
		RateLimit:      cfg.Auth.RateLimitConfig(),
		HealthChecks:   healthChecks,
		MetricsEnabled: cfg.Monitoring.Prometheus.Enabled,
		MetricsPath:    cfg.Monitoring.Prometheus.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

func buildNotifier(cfg *app.Config, ttl time.Duration) (*services.MailNotifier, error) {
	mailer, err := mail.NewSMTPMailer(cfg.Email.SMTPSettings())
	if err != nil {
		return nil, fmt.Errorf("initialise mailer: %w", err)
	}

	templates, err := mail.LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("load email templates: %w", err)
	}

	notifierCfg := cfg.NotifierConfig()
	notifierCfg.TokenTTL = ttl

	notifier, err := services.NewMailNotifier(mailer, templates, notifierCfg)
	if err != nil {
		return nil, fmt.Errorf("initialise notifier: %w", err)
	}
	return notifier, nil
}

func buildAuthFlows(
	accounts *repository.Accounts,
	verificationTokens *repository.VerificationTokens,
	resetTokens *repository.PasswordResetTokens,
	issuer *services.TokenService,
	notifier *services.MailNotifier,
	jwtSvc *iauth.JWTService,
	recorder services.EventRecorder,
) (handlers.AuthFlows, error) {
	verification, err := services.NewVerificationFlow(verificationTokens, accounts,
		services.WithVerificationRecorder(recorder))
	if err != nil {
		return handlers.AuthFlows{}, fmt.Errorf("initialise verification flow: %w", err)
	}

	passwordReset, err := services.NewPasswordResetFlow(accounts, issuer, notifier,
		services.WithPasswordResetTokens(resetTokens),
		services.WithPasswordResetRecorder(recorder))
	if err != nil {
		return handlers.AuthFlows{}, fmt.Errorf("initialise password reset flow: %w", err)
	}

	registration, err := services.NewRegistrationFlow(accounts, issuer, notifier,
		services.WithRegistrationRecorder(recorder))
	if err != nil {
		return handlers.AuthFlows{}, fmt.Errorf("initialise registration flow: %w", err)
	}

	login, err := services.NewLoginFlow(accounts, issuer, notifier, jwtSvc,
		services.WithLoginRecorder(recorder))
	if err != nil {
		return handlers.AuthFlows{}, fmt.Errorf("initialise login flow: %w", err)
	}

	return handlers.AuthFlows{
		Verification:  verification,
		PasswordReset: passwordReset,
		Registration:  registration,
		Login:         login,
		Accounts:      accounts,
	}, nil
}

// selectRateStore prefers Redis, keeps single-node SQLite deployments in process memory and
// otherwise shares counters through the database cache table.
func selectRateStore(cfg *app.Config, redis *cache.RedisStore, db *cache.DatabaseStore) cache.Store {
	switch {
	case redis != nil:
		return redis
	case cfg.Database.ConnectionConfig().Driver == "sqlite":
		return cache.NewMemoryStore(time.Minute)
	case db != nil:
		return db
	default:
		return nil
	}
}

// Shutdown gracefully stops background jobs and releases resources.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) {
	if s == nil {
		return
	}

	if s.Cleaner != nil {
		stopCtx := s.Cleaner.Stop()
		<-stopCtx.Done()
		if err := s.Cleaner.RunOnce(ctx); err != nil {
			log.Warn("maintenance shutdown cleanup failed", zap.Error(err))
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.Warn("redis shutdown", zap.Error(err))
		}
	}

	if s.DB != nil {
		closeDatabase(s.DB, log)
	}
}
