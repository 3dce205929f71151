package db

import (
	"context"
	"testing"

	dbmodels "github.com/gartstein/guardroster/internal/console/db/models"
	e "github.com/gartstein/guardroster/internal/console/errors"
	"github.com/gartstein/guardroster/internal/console/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB initializes an in-memory SQLite database for testing.
func SetupTestDB(t *testing.T) *Repository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&dbmodels.IdentitySnapshot{})
	require.NoError(t, err, "failed to migrate test database")

	repo := &Repository{db: db}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestLoadIdentity_Empty(t *testing.T) {
	repo := SetupTestDB(t)

	_, err := repo.LoadIdentity(context.Background())
	assert.ErrorIs(t, err, e.ErrNotFound)

	tok, err := repo.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestSaveIdentity_Upserts(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveIdentity(ctx, models.User{Email: "first@registry.mw", Role: "clerk"}))
	require.NoError(t, repo.SaveIdentity(ctx, models.User{Email: "admin@registry.mw", Role: "admin", Message: "Welcome"}))

	got, err := repo.LoadIdentity(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.User{Email: "admin@registry.mw", Role: "admin", Message: "Welcome"}, got)

	var count int64
	require.NoError(t, repo.db.Model(&dbmodels.IdentitySnapshot{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSaveToken_KeepsIdentity(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveIdentity(ctx, models.User{Email: "admin@registry.mw", Role: "admin"}))
	require.NoError(t, repo.SaveToken(ctx, "tok-1"))

	tok, err := repo.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	got, err := repo.LoadIdentity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin@registry.mw", got.Email)
}

func TestTokenWithoutIdentity(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveToken(ctx, "tok-1"))
	_, err := repo.LoadIdentity(ctx)
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestSaveSessionAndClear(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveSession(ctx, models.User{Email: "admin@registry.mw", Role: "admin"}, "tok-2"))
	tok, err := repo.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", tok)

	require.NoError(t, repo.ClearIdentity(ctx))
	_, err = repo.LoadIdentity(ctx)
	assert.ErrorIs(t, err, e.ErrNotFound)
	tok, err = repo.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestNewRepository_UnknownDriver(t *testing.T) {
	_, err := NewRepository(&Config{Driver: "mysql"})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}
