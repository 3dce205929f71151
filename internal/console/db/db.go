package db

import (
	"context"
	"errors"
	"fmt"

	dbmodels "github.com/gartstein/guardroster/internal/console/db/models"
	e "github.com/gartstein/guardroster/internal/console/errors"
	"github.com/gartstein/guardroster/internal/console/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Driver string // sqlite or postgres
	DSN    string
}

func NewRepository(cfg *Config) (*Repository, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "console.db"
		}
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q: %w", cfg.Driver, e.ErrInvalidInput)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&dbmodels.IdentitySnapshot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

// LoadIdentity returns the stored operator identity, or ErrNotFound.
func (r *Repository) LoadIdentity(ctx context.Context) (*models.User, error) {
	snap, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snap.Email == "" {
		return nil, e.ErrNotFound
	}
	return &models.User{Email: snap.Email, Role: snap.Role, Message: snap.Message}, nil
}

// SaveIdentity stores the operator identity, keeping any stored token.
func (r *Repository) SaveIdentity(ctx context.Context, user models.User) error {
	snap := dbmodels.IdentitySnapshot{
		Slot:    dbmodels.OperatorSlot,
		Email:   user.Email,
		Role:    user.Role,
		Message: user.Message,
	}
	return r.upsert(ctx, &snap, "email", "role", "message", "updated_at")
}

// ClearIdentity forgets the operator identity and token.
func (r *Repository) ClearIdentity(ctx context.Context) error {
	result := r.db.WithContext(ctx).Delete(&dbmodels.IdentitySnapshot{}, "slot = ?", dbmodels.OperatorSlot)
	return result.Error
}

// Token returns the stored backend bearer token, or "" when none is stored.
func (r *Repository) Token(ctx context.Context) (string, error) {
	snap, err := r.snapshot(ctx)
	if errors.Is(err, e.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return snap.Token, nil
}

func (r *Repository) SaveToken(ctx context.Context, token string) error {
	snap := dbmodels.IdentitySnapshot{Slot: dbmodels.OperatorSlot, Token: token}
	return r.upsert(ctx, &snap, "token", "updated_at")
}

// SaveSession stores identity and token together.
func (r *Repository) SaveSession(ctx context.Context, user models.User, token string) error {
	return r.WithTransaction(ctx, func(repo *Repository) error {
		if err := repo.SaveIdentity(ctx, user); err != nil {
			return err
		}
		if token == "" {
			return nil
		}
		return repo.SaveToken(ctx, token)
	})
}

func (r *Repository) snapshot(ctx context.Context) (*dbmodels.IdentitySnapshot, error) {
	var snap dbmodels.IdentitySnapshot
	result := r.db.WithContext(ctx).First(&snap, "slot = ?", dbmodels.OperatorSlot)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &snap, nil
}

func (r *Repository) upsert(ctx context.Context, snap *dbmodels.IdentitySnapshot, columns ...string) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(snap)
	return result.Error
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
