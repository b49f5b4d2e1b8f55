package database

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"madajob-backend/shared/database/models"
	"madajob-backend/shared/errs"
	utils "madajob-backend/shared/utils/auth"
)

type SuperAdmin struct {
	Name     string
	Username string
	Email    string
	Password string
}

// CreateSuperAdmin creates the first superuser unless a user with the same username or
// email is already there. It reports whether a row was inserted.
func CreateSuperAdmin(ctx context.Context, store Store, admin SuperAdmin, log *zap.Logger) (bool, error) {
	if admin.Password == "" {
		return false, errors.New("super admin password is empty")
	}

	created := false
	err := store.WithTx(ctx, func(tx Store) error {
		emailTaken, err := tx.Users().ExistsByEmail(ctx, admin.Email)
		if err != nil {
			return err
		}
		usernameTaken, err := tx.Users().ExistsByUsername(ctx, admin.Username)
		if err != nil {
			return err
		}
		if emailTaken || usernameTaken {
			log.Info("super admin already exists", zap.String("username", admin.Username))
			return nil
		}

		hashedPassword, err := utils.HashPassword(admin.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		user := &models.User{
			Name:           admin.Name,
			Username:       admin.Username,
			Email:          admin.Email,
			HashedPassword: hashedPassword,
			IsSuperuser:    true,
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			if errors.Is(err, errs.ErrDuplicateValue) {
				return nil
			}
			return err
		}

		created = true
		log.Info("super admin created", zap.Uint("id", user.ID), zap.String("username", user.Username))
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("create super admin: %w", err)
	}
	return created, nil
}
