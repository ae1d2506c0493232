package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	iauth "github.com/reelhub/reelhub/internal/auth"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *iauth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwt, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "test-secret"})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", Auth(jwt), func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		require.True(t, ok)
		c.String(http.StatusOK, claims.AccountID)
	})
	return r, jwt
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	r, jwt := newAuthRouter(t)

	issued, err := jwt.IssueAccessToken(iauth.AccessTokenInput{AccountID: "acc-1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+issued.Token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "acc-1", w.Body.String())
}

func TestAuthRejectsMissingOrInvalidToken(t *testing.T) {
	r, _ := newAuthRouter(t)

	for _, header := range []string{"", "Basic abc", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		require.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	jwt, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "test-secret"})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/admin", Auth(jwt), RequireRole("admin"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for role, want := range map[string]int{"admin": http.StatusNoContent, "user": http.StatusForbidden} {
		issued, err := jwt.IssueAccessToken(iauth.AccessTokenInput{AccountID: "acc-1", Role: role})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+issued.Token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, want, w.Code, "role %s", role)
	}
}
