package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	require.EqualError(t, err, "jwt: secret must be provided")
}

func TestIssueAndValidateAccessToken(t *testing.T) {
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	svc, err := NewJWTService(JWTConfig{
		Secret:         "super-secret",
		Issuer:         "reelhub",
		AccessTokenTTL: time.Hour,
		Clock:          func() time.Time { return current },
	})
	require.NoError(t, err)

	issued, err := svc.IssueAccessToken(AccessTokenInput{AccountID: "acc-1", Email: "viewer@example.com", Role: "user"})
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)
	require.True(t, issued.ExpiresAt.Equal(current.Add(time.Hour)))

	claims, err := svc.ValidateAccessToken(issued.Token)
	require.NoError(t, err)
	require.Equal(t, "acc-1", claims.AccountID)
	require.Equal(t, "acc-1", claims.Subject)
	require.Equal(t, "viewer@example.com", claims.Email)
	require.Equal(t, "user", claims.Role)
	require.Equal(t, "reelhub", claims.Issuer)
	require.True(t, claims.IssuedAt.Time.Equal(current))
}

func TestIssueAccessTokenRequiresAccount(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "secret"})
	require.NoError(t, err)

	_, err = svc.IssueAccessToken(AccessTokenInput{})
	require.Error(t, err)
}

func TestValidateAccessTokenRejectsForeignSignature(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC) }

	issuer, err := NewJWTService(JWTConfig{Secret: "issuer-secret", Clock: now})
	require.NoError(t, err)
	validator, err := NewJWTService(JWTConfig{Secret: "other-secret", Clock: now})
	require.NoError(t, err)

	issued, err := issuer.IssueAccessToken(AccessTokenInput{AccountID: "acc-1"})
	require.NoError(t, err)

	_, err = validator.ValidateAccessToken(issued.Token)
	require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestValidateAccessTokenExpired(t *testing.T) {
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc, err := NewJWTService(JWTConfig{
		Secret:         "secret",
		AccessTokenTTL: time.Minute,
		Clock:          func() time.Time { return current },
	})
	require.NoError(t, err)

	issued, err := svc.IssueAccessToken(AccessTokenInput{AccountID: "acc-1"})
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	_, err = svc.ValidateAccessToken(issued.Token)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateAccessTokenIssuerMismatch(t *testing.T) {
	first, err := NewJWTService(JWTConfig{Secret: "secret", Issuer: "a"})
	require.NoError(t, err)
	second, err := NewJWTService(JWTConfig{Secret: "secret", Issuer: "b"})
	require.NoError(t, err)

	issued, err := first.IssueAccessToken(AccessTokenInput{AccountID: "acc-1"})
	require.NoError(t, err)

	_, err = second.ValidateAccessToken(issued.Token)
	require.EqualError(t, err, "jwt: invalid issuer")
}

func TestValidateAccessTokenEmpty(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "secret"})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken("")
	require.Error(t, err)
}
