package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reelhub/reelhub/internal/database/testutil"
	"github.com/reelhub/reelhub/internal/models"
)

func TestAccountsCreateFindUpdate(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	repo, err := NewAccounts(db)
	require.NoError(t, err)
	ctx := context.Background()

	account := &models.Account{Name: "Ada", Email: "ada@example.com", Password: "hash"}
	require.NoError(t, repo.CreateAccount(ctx, account))
	require.NotEmpty(t, account.ID)

	found, err := repo.FindAccountByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, account.ID, found.ID)
	require.Equal(t, models.RoleUser, found.Role)
	require.False(t, found.IsVerified())

	verifiedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	email := "ada@example.com"
	require.NoError(t, repo.UpdateAccount(ctx, account.ID, AccountUpdate{Email: &email, EmailVerified: &verifiedAt}))

	byID, err := repo.FindAccountByID(ctx, account.ID)
	require.NoError(t, err)
	require.True(t, byID.IsVerified())
	require.True(t, verifiedAt.Equal(*byID.EmailVerified))
}

func TestAccountsNotFound(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	repo, err := NewAccounts(db)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = repo.FindAccountByEmail(ctx, "ghost@example.com")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = repo.FindAccountByID(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	password := "hash"
	err = repo.UpdateAccount(ctx, "missing", AccountUpdate{Password: &password})
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.UpdateAccount(ctx, "missing", AccountUpdate{}))
}

func TestAccountsDuplicateEmail(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	repo, err := NewAccounts(db)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.CreateAccount(ctx, &models.Account{Email: "dup@example.com"}))
	err = repo.CreateAccount(ctx, &models.Account{Email: "dup@example.com"})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestVerificationTokensLifecycle(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	repo, err := NewVerificationTokens(db)
	require.NoError(t, err)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	expired := &models.VerificationToken{Email: "a@example.com", Token: "old", Expires: now.Add(-time.Minute)}
	live := &models.VerificationToken{Email: "b@example.com", Token: "fresh", Expires: now.Add(time.Hour)}
	require.NoError(t, repo.CreateVerificationToken(ctx, expired))
	require.NoError(t, repo.CreateVerificationToken(ctx, live))

	found, err := repo.FindVerificationTokenByToken(ctx, "fresh")
	require.NoError(t, err)
	require.Equal(t, "b@example.com", found.Email)

	byToken, err := repo.FindVerificationTokenByToken(ctx, "old")
	require.NoError(t, err)
	require.Equal(t, expired.ID, byToken.ID)

	purged, err := repo.PurgeExpiredVerificationTokens(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)

	_, err = repo.FindVerificationTokenByToken(ctx, "old")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.DeleteVerificationToken(ctx, live.ID))
	require.NoError(t, repo.DeleteVerificationToken(ctx, live.ID))
	_, err = repo.FindVerificationTokenByToken(ctx, "fresh")
	require.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, repo.CreateVerificationToken(ctx, &models.VerificationToken{Email: "c@example.com", Token: "c1", Expires: now.Add(time.Hour)}))
	require.NoError(t, repo.CreateVerificationToken(ctx, &models.VerificationToken{Email: "c@example.com", Token: "c2", Expires: now.Add(time.Hour)}))
	require.NoError(t, repo.DeleteVerificationTokensByEmail(ctx, "c@example.com"))
	for _, token := range []string{"c1", "c2"} {
		_, err = repo.FindVerificationTokenByToken(ctx, token)
		require.ErrorIs(t, err, ErrNotFound)
	}
}

func TestPasswordResetTokensLifecycle(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	repo, err := NewPasswordResetTokens(db)
	require.NoError(t, err)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreatePasswordResetToken(ctx, &models.PasswordResetToken{Email: "a@example.com", Token: "t1", Expires: now}))
	require.NoError(t, repo.CreatePasswordResetToken(ctx, &models.PasswordResetToken{Email: "a@example.com", Token: "t2", Expires: now.Add(time.Hour)}))

	purged, err := repo.PurgeExpiredPasswordResetTokens(ctx, now)
	require.NoError(t, err)
	require.Zero(t, purged, "a token expiring exactly at now is still valid")

	require.NoError(t, repo.DeletePasswordResetTokensByEmail(ctx, "a@example.com"))
	for _, token := range []string{"t1", "t2"} {
		_, err = repo.FindPasswordResetTokenByToken(ctx, token)
		require.ErrorIs(t, err, ErrNotFound)
	}

	err = repo.CreatePasswordResetToken(ctx, nil)
	require.Error(t, err)
}
