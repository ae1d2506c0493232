package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reelhub/reelhub/internal/middleware"
	"github.com/reelhub/reelhub/internal/repository"
	"github.com/reelhub/reelhub/internal/services"
	appErrors "github.com/reelhub/reelhub/pkg/errors"
	"github.com/reelhub/reelhub/pkg/logger"
	"github.com/reelhub/reelhub/pkg/response"
)

// AuthFlows bundles the account flows served over HTTP.
type AuthFlows struct {
	Verification  *services.VerificationFlow
	PasswordReset *services.PasswordResetFlow
	Registration  *services.RegistrationFlow
	Login         *services.LoginFlow
	Accounts      services.AccountStore
}

// AuthHandler exposes the account flows.
type AuthHandler struct {
	flows AuthFlows
}

func NewAuthHandler(flows AuthFlows) (*AuthHandler, error) {
	if flows.Verification == nil || flows.PasswordReset == nil || flows.Registration == nil || flows.Login == nil {
		return nil, errors.New("auth handler: all flows are required")
	}
	if flows.Accounts == nil {
		return nil, errors.New("auth handler: account store is required")
	}
	return &AuthHandler{flows: flows}, nil
}

type newVerificationRequest struct {
	Token string `json:"token"`
}

// resetRequest accepts any JSON value for email so that wrong types reach the flow as invalid input.
type resetRequest struct {
	Email any `json:"email"`
}

// POST /api/auth/new-verification
func (h *AuthHandler) NewVerification(c *gin.Context) {
	var req newVerificationRequest
	if hasBody(c) && !bindJSON(c, &req) {
		return
	}
	if req.Token == "" {
		req.Token = c.Query("token")
	}

	result, err := h.flows.Verification.VerifyEmail(requestContext(c), req.Token)
	h.render(c, "verification", result, err, nil)
}

// POST /api/auth/reset
func (h *AuthHandler) Reset(c *gin.Context) {
	var req resetRequest
	if hasBody(c) {
		// undecodable bodies are reported by the flow like any other invalid email
		_ = c.ShouldBindJSON(&req)
	}
	input := services.ResetInput{}
	if req.Email != nil {
		input.Email = fmt.Sprint(req.Email)
	}

	result, err := h.flows.PasswordReset.RequestPasswordReset(requestContext(c), input)
	h.render(c, "password_reset", result, err, nil)
}

// POST /api/auth/new-password?token=
func (h *AuthHandler) NewPassword(c *gin.Context) {
	var req services.NewPasswordInput
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.flows.PasswordReset.ResetPassword(requestContext(c), c.Query("token"), req)
	h.render(c, "new_password", result, err, nil)
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.flows.Registration.Register(requestContext(c), req)
	h.render(c, "registration", result, err, nil)
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginInput
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.flows.Login.Login(requestContext(c), req)
	var extra gin.H
	if err == nil && result.AccessToken.Token != "" {
		extra = gin.H{
			"access_token": result.AccessToken.Token,
			"token_type":   "Bearer",
			"expires_at":   result.AccessToken.ExpiresAt.UTC().Format(time.RFC3339),
		}
	}
	h.render(c, "login", result.Result, err, extra)
}

type accountPayload struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	EmailVerified *time.Time `json:"email_verified"`
}

// GET /api/account/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	account, err := h.flows.Accounts.FindAccountByID(requestContext(c), claims.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}

	response.Success(c, http.StatusOK, accountPayload{
		ID:            account.ID,
		Name:          account.Name,
		Email:         account.Email,
		Role:          account.Role,
		EmailVerified: account.EmailVerified,
	})
}

func (h *AuthHandler) render(c *gin.Context, flow string, result services.Result, err error, extra gin.H) {
	if err != nil {
		logger.WithModule("auth").Error("account flow failed", zap.String("flow", flow), zap.Error(err))
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}

	if !result.OK() {
		response.Error(c, resultError(result))
		return
	}

	data := gin.H{"success": result.Message}
	if result.Email != "" {
		data["email"] = result.Email
	}
	for key, value := range extra {
		data[key] = value
	}
	response.Success(c, http.StatusOK, data)
}

func resultError(result services.Result) *appErrors.AppError {
	var base *appErrors.AppError
	switch result.Kind {
	case services.ResultTokenNotFound:
		base = appErrors.ErrTokenNotFound
	case services.ResultTokenExpired:
		base = appErrors.ErrTokenExpired
	case services.ResultAccountNotFound:
		base = appErrors.ErrAccountNotFound
	case services.ResultInvalidInput:
		base = appErrors.ErrInvalidInput
	case services.ResultEmailTaken:
		base = appErrors.ErrEmailTaken
	case services.ResultInvalidCredentials:
		base = appErrors.ErrInvalidCredentials
	default:
		base = appErrors.ErrBadRequest
	}
	return base.WithMessage(result.Message)
}
