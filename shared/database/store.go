package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"madajob-backend/shared/database/models"
	"madajob-backend/shared/errs"
)

// Store is the root data access interface. Sub-repositories are reached through it so a
// transaction-scoped Store hands out repositories bound to the same transaction.
type Store interface {
	Users() Users
	TokenBlacklist() TokenBlacklist

	// WithTx runs fn in a transaction. fn's error rolls it back, nil commits.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	Ping(ctx context.Context) error
	Close() error
}

// UserChanges is a partial update; nil fields are left untouched.
type UserChanges struct {
	Name     *string
	Username *string
	Email    *string
}

type UserFilter struct {
	Offset      int
	Limit       int
	IsSuperuser bool
}

// Users only ever sees non-deleted rows, except HardDelete which also purges soft-deleted ones.
type Users interface {
	// Create inserts u and fills its id. Unique violations return errs.ErrDuplicateValue.
	Create(ctx context.Context, u *models.User) error

	GetByID(ctx context.Context, id uint) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// Update applies the non-nil changes and bumps updated_at.
	Update(ctx context.Context, id uint, changes UserChanges) error

	// UpdatePassword is the only path that touches hashed_password after creation.
	UpdatePassword(ctx context.Context, id uint, hashedPassword string) error

	SoftDelete(ctx context.Context, id uint) error
	HardDelete(ctx context.Context, id uint) error

	// List returns one page ordered by id plus the total number of matching users.
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
}

type TokenBlacklist interface {
	Exists(ctx context.Context, token string) (bool, error)

	// Create records a revoked token. A second insert of the same token returns errs.ErrDuplicateValue.
	Create(ctx context.Context, token string, expiresAt time.Time) error

	// Remove deletes the entry if present.
	Remove(ctx context.Context, token string) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore wraps an open gorm connection.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() Users                   { return &usersRepo{db: s.db} }
func (s *gormStore) TokenBlacklist() TokenBlacklist { return &tokenBlacklistRepo{db: s.db} }

func (s *gormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translate maps driver level failures onto the shared categories.
func translate(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NotFound(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.DuplicateValue("Value already exists")
	default:
		return err
	}
}
