package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/reelhub/reelhub/internal/auth"
	"github.com/reelhub/reelhub/pkg/errors"
	"github.com/reelhub/reelhub/pkg/response"
)

const (
	CtxClaimsKey    = "authClaims"
	CtxAccountIDKey = "accountID"
)

// Auth enforces bearer-token authentication.
func Auth(jwt *iauth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			c.Header("WWW-Authenticate", "Bearer")
			response.Abort(c, errors.ErrUnauthorized)
			return
		}

		claims, err := jwt.ValidateAccessToken(strings.TrimSpace(authz[7:]))
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			response.Abort(c, errors.ErrUnauthorized)
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Set(CtxAccountIDKey, claims.AccountID)
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by Auth.
func ClaimsFrom(c *gin.Context) (*iauth.Claims, bool) {
	value, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*iauth.Claims)
	return claims, ok
}

// RequireRole rejects authenticated requests whose role differs from role. It must run after Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			response.Abort(c, errors.ErrUnauthorized)
			return
		}
		if claims.Role != role {
			response.Abort(c, errors.ErrForbidden)
			return
		}
		c.Next()
	}
}
