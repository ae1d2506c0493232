package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/reelhub/reelhub/internal/models"
)

func TestOpenSQLiteMemory(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Exec("SELECT 1").Error)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.ErrorContains(t, err, "unsupported database driver")
}

func TestAutoMigrateCreatesTables(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AutoMigrateAndSeed(db, SeedOptions{}))

	migrator := db.Migrator()
	for _, table := range []any{
		&models.Account{},
		&models.VerificationToken{},
		&models.PasswordResetToken{},
		&models.AuditLog{},
		&models.CacheEntry{},
	} {
		require.True(t, migrator.HasTable(table), "expected table for %T to exist", table)
	}

	var count int64
	require.NoError(t, db.Model(&models.Account{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestSeedDataCreatesAdminOnce(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AutoMigrate(db))

	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	opts := SeedOptions{
		AdminEmail:        " Admin@Example.com ",
		AdminPasswordHash: "hash",
		Now:               func() time.Time { return now },
	}
	require.NoError(t, SeedData(db, opts))

	opts.AdminPasswordHash = "other"
	require.NoError(t, SeedData(db, opts))

	var admins []models.Account
	require.NoError(t, db.Find(&admins).Error)
	require.Len(t, admins, 1)
	require.Equal(t, "admin@example.com", admins[0].Email)
	require.Equal(t, "hash", admins[0].Password)
	require.Equal(t, models.RoleAdmin, admins[0].Role)
	require.NotNil(t, admins[0].EmailVerified)
}

func TestSeedDataRequiresPasswordHash(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AutoMigrate(db))

	require.Error(t, SeedData(db, SeedOptions{AdminEmail: "admin@example.com"}))
}

func TestTokenEmailTokenPairIsUnique(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AutoMigrate(db))

	expires := time.Now().Add(time.Hour)
	require.NoError(t, db.Create(&models.VerificationToken{Email: "a@x.com", Token: "abc", Expires: expires}).Error)
	err := db.Create(&models.VerificationToken{Email: "b@x.com", Token: "abc", Expires: expires}).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(Config{Driver: "sqlite"})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}
