package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/reelhub/reelhub/internal/api"
	iauth "github.com/reelhub/reelhub/internal/auth"
	"github.com/reelhub/reelhub/internal/cache"
	sharedtestutil "github.com/reelhub/reelhub/internal/database/testutil"
	"github.com/reelhub/reelhub/internal/handlers"
	"github.com/reelhub/reelhub/internal/middleware"
	"github.com/reelhub/reelhub/internal/models"
	"github.com/reelhub/reelhub/internal/repository"
	"github.com/reelhub/reelhub/internal/services"
	"github.com/reelhub/reelhub/pkg/crypto"
	"github.com/reelhub/reelhub/pkg/mail"
	"github.com/reelhub/reelhub/pkg/response"
)

const (
	// BaseURL is the front end address used in email links.
	BaseURL   = "https://reelhub.test"
	jwtSecret = "test-suite-super-secret-key-32-bytes!!"
)

// Env encapsulates a fully-wired API instance backed by an in-memory database for handler tests.
type Env struct {
	T      *testing.T
	DB     *gorm.DB
	Router *gin.Engine
	JWT    *iauth.JWTService
	Mailer *RecordingMailer
	Audit  *services.AuditService

	Accounts           *repository.Accounts
	VerificationTokens *repository.VerificationTokens
	ResetTokens        *repository.PasswordResetTokens
}

type envOptions struct {
	rateLimit middleware.RateLimitConfig
	mailErr   error
}

// Option customises NewEnv.
type Option func(*envOptions)

// WithRateLimit enables the /api/auth rate limiter.
func WithRateLimit(requests int, window time.Duration) Option {
	return func(o *envOptions) {
		o.rateLimit = middleware.RateLimitConfig{Requests: requests, Window: window}
	}
}

// WithMailError makes every send fail with err.
func WithMailError(err error) Option {
	return func(o *envOptions) {
		o.mailErr = err
	}
}

// NewEnv provisions a fresh handler test environment with migrations applied.
func NewEnv(t *testing.T, opts ...Option) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	var options envOptions
	for _, opt := range opts {
		opt(&options)
	}

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithAutoMigrate())

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         jwtSecret,
		Issuer:         "test-suite",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	accounts, err := repository.NewAccounts(db)
	require.NoError(t, err)
	verificationTokens, err := repository.NewVerificationTokens(db)
	require.NoError(t, err)
	resetTokens, err := repository.NewPasswordResetTokens(db)
	require.NoError(t, err)

	auditSvc, err := services.NewAuditService(db)
	require.NoError(t, err)
	recorder := services.MultiRecorder{services.NewLogRecorder(zap.NewNop()), auditSvc}

	issuer, err := services.NewTokenService(verificationTokens, resetTokens)
	require.NoError(t, err)

	mailer := &RecordingMailer{err: options.mailErr}
	templates, err := mail.LoadTemplates()
	require.NoError(t, err)
	notifier, err := services.NewMailNotifier(mailer, templates, services.NotifierConfig{
		AppName:  "ReelHub",
		BaseURL:  BaseURL,
		TokenTTL: issuer.TTL(),
	})
	require.NoError(t, err)

	verification, err := services.NewVerificationFlow(verificationTokens, accounts,
		services.WithVerificationRecorder(recorder))
	require.NoError(t, err)
	passwordReset, err := services.NewPasswordResetFlow(accounts, issuer, notifier,
		services.WithPasswordResetTokens(resetTokens),
		services.WithPasswordResetRecorder(recorder),
		services.WithPasswordHashCost(bcrypt.MinCost),
	)
	require.NoError(t, err)
	registration, err := services.NewRegistrationFlow(accounts, issuer, notifier,
		services.WithRegistrationRecorder(recorder),
		services.WithRegistrationHashCost(bcrypt.MinCost),
	)
	require.NoError(t, err)
	login, err := services.NewLoginFlow(accounts, issuer, notifier, jwtSvc,
		services.WithLoginRecorder(recorder))
	require.NoError(t, err)

	authHandler, err := handlers.NewAuthHandler(handlers.AuthFlows{
		Verification:  verification,
		PasswordReset: passwordReset,
		Registration:  registration,
		Login:         login,
		Accounts:      accounts,
	})
	require.NoError(t, err)

	router, err := api.NewRouter(api.Dependencies{
		DB:             db,
		JWT:            jwtSvc,
		Auth:           authHandler,
		Audit:          handlers.NewAuditHandler(auditSvc),
		RateStore:      cache.NewMemoryStore(time.Minute),
		RateLimit:      options.rateLimit,
		MetricsEnabled: true,
	})
	require.NoError(t, err)

	return &Env{
		T:                  t,
		DB:                 db,
		Router:             router,
		JWT:                jwtSvc,
		Mailer:             mailer,
		Audit:              auditSvc,
		Accounts:           accounts,
		VerificationTokens: verificationTokens,
		ResetTokens:        resetTokens,
	}
}

// CreateAccount inserts an account with the given password. Verified accounts get EmailVerified set.
func (e *Env) CreateAccount(email, password string, verified bool) *models.Account {
	e.T.Helper()
	return e.createAccount(email, password, verified, models.RoleUser)
}

// CreateAdmin inserts a verified administrator.
func (e *Env) CreateAdmin(email, password string) *models.Account {
	e.T.Helper()
	return e.createAccount(email, password, true, models.RoleAdmin)
}

func (e *Env) createAccount(email, password string, verified bool, role string) *models.Account {
	e.T.Helper()

	account := &models.Account{Name: "Test Viewer", Email: email, Role: role}
	if password != "" {
		hashed, err := crypto.HashPasswordWithCost(password, bcrypt.MinCost)
		require.NoError(e.T, err)
		account.Password = hashed
	}
	if verified {
		now := time.Now().UTC()
		account.EmailVerified = &now
	}

	require.NoError(e.T, e.Accounts.CreateAccount(context.Background(), account))
	return account
}

// CreateVerificationToken stores a verification token for email expiring at expires.
func (e *Env) CreateVerificationToken(email, token string, expires time.Time) *models.VerificationToken {
	e.T.Helper()
	record := &models.VerificationToken{Email: email, Token: token, Expires: expires}
	require.NoError(e.T, e.VerificationTokens.CreateVerificationToken(context.Background(), record))
	return record
}

// CreateResetToken stores a password reset token for email expiring at expires.
func (e *Env) CreateResetToken(email, token string, expires time.Time) *models.PasswordResetToken {
	e.T.Helper()
	record := &models.PasswordResetToken{Email: email, Token: token, Expires: expires}
	require.NoError(e.T, e.ResetTokens.CreatePasswordResetToken(context.Background(), record))
	return record
}

// LoginResult bundles the JSON response from POST /api/auth/login.
type LoginResult struct {
	Success     string `json:"success"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   string `json:"expires_at"`
}

// Login signs in with email and password and returns the issued access token.
func (e *Env) Login(email, password string) LoginResult {
	e.T.Helper()

	w := e.Request(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(e.T, http.StatusOK, w.Code, w.Body.String())

	resp := DecodeResponse(e.T, w)
	require.True(e.T, resp.Success, w.Body.String())

	var result LoginResult
	DecodeInto(e.T, resp.Data, &result)
	require.NotEmpty(e.T, result.AccessToken)
	require.Equal(e.T, "Bearer", result.TokenType)

	return result
}

// APIResponse represents the canonical API envelope returned by handlers.
type APIResponse struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
}

// DecodeResponse parses the standard API response object from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}

// Request executes an HTTP request against the test router, applying JSON encoding and auth headers automatically.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	buf := bytes.NewBuffer(nil)
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// RecordingMailer captures outbound messages instead of delivering them.
type RecordingMailer struct {
	mu       sync.Mutex
	messages []mail.Message
	err      error
}

func (m *RecordingMailer) Send(_ context.Context, msg mail.Message) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

// Messages returns a copy of every captured message.
func (m *RecordingMailer) Messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.messages...)
}

// Last returns the most recent message and fails the test when none was sent.
func (m *RecordingMailer) Last(t *testing.T) mail.Message {
	t.Helper()
	messages := m.Messages()
	require.NotEmpty(t, messages, "expected an email to be sent")
	return messages[len(messages)-1]
}

var tokenParam = regexp.MustCompile(`token=([A-Za-z0-9_%\-]+)`)

// TokenFrom extracts the token query parameter from the link in msg's text body.
func TokenFrom(t *testing.T, msg mail.Message) string {
	t.Helper()
	match := tokenParam.FindStringSubmatch(msg.Body)
	require.Len(t, match, 2, "no token link in email body: %s", msg.Body)
	token, err := url.QueryUnescape(match[1])
	require.NoError(t, err)
	return token
}
