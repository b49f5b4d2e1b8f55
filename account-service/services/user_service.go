package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"madajob-backend/shared/database"
	"madajob-backend/shared/database/models"
	"madajob-backend/shared/errs"
	"madajob-backend/shared/logger"
	utils "madajob-backend/shared/utils/auth"
	"madajob-backend/shared/utils/query"
)

// UserCreate is the payload of POST /users.
type UserCreate struct {
	Name        string `json:"name" binding:"required,min=2,max=50" example:"User Userson"`
	Username    string `json:"username" binding:"required,min=2,max=20,username" example:"userson"`
	Email       string `json:"email" binding:"required,email,max=50" example:"user.userson@example.com"`
	Password    string `json:"password" binding:"required,maxbytes=72" example:"Str1ngst!"`
	IsSuperuser bool   `json:"is_superuser"`
}

// UserUpdate is the payload of PATCH /users/:id. Absent fields are left unchanged.
type UserUpdate struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=50" example:"User Userberg"`
	Username *string `json:"username" binding:"omitempty,min=2,max=20,username" example:"userberg"`
	Email    *string `json:"email" binding:"omitempty,email,max=50" example:"user.userberg@example.com"`
}

// UserService implements the user lifecycle: active, soft-deleted, purged.
type UserService struct {
	store  database.Store
	gate   *Gate
	tokens *TokenService
}

func NewUserService(store database.Store, gate *Gate, tokens *TokenService) *UserService {
	return &UserService{store: store, gate: gate, tokens: tokens}
}

// CreateUser checks email before username so the reported conflict is deterministic.
// The unique indexes stay the final word when two creates race.
func (s *UserService) CreateUser(ctx context.Context, in UserCreate) (models.UserRead, error) {
	taken, err := s.store.Users().ExistsByEmail(ctx, in.Email)
	if err != nil {
		return models.UserRead{}, err
	}
	if taken {
		return models.UserRead{}, errs.DuplicateValue(errs.MsgEmailRegistered)
	}

	taken, err = s.store.Users().ExistsByUsername(ctx, in.Username)
	if err != nil {
		return models.UserRead{}, err
	}
	if taken {
		return models.UserRead{}, errs.DuplicateValue(errs.MsgUsernameTaken)
	}

	hashedPassword, err := utils.HashPassword(in.Password)
	if err != nil {
		return models.UserRead{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:           in.Name,
		Username:       in.Username,
		Email:          in.Email,
		HashedPassword: hashedPassword,
		IsSuperuser:    in.IsSuperuser,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return models.UserRead{}, err
	}

	logger.FromContext(ctx).Info("user created", zap.Uint("user_id", user.ID), zap.Bool("is_superuser", user.IsSuperuser))
	return user.Read(), nil
}

func (s *UserService) ListUsers(ctx context.Context, page query.PageParams, isSuperuser bool) (query.PaginatedResponse[models.UserRead], error) {
	users, total, err := s.store.Users().List(ctx, database.UserFilter{
		Offset:      page.Offset(),
		Limit:       page.ItemsPerPage,
		IsSuperuser: isSuperuser,
	})
	if err != nil {
		return query.PaginatedResponse[models.UserRead]{}, err
	}

	data := make([]models.UserRead, 0, len(users))
	for _, u := range users {
		data = append(data, u.Read())
	}
	return query.NewPaginatedResponse(data, total, page), nil
}

func (s *UserService) FindUser(ctx context.Context, id uint) (models.UserRead, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return models.UserRead{}, err
	}
	return user.Read(), nil
}

// UpdateUser applies a partial update to the caller's own account. Uniqueness is only
// checked for fields that actually change.
func (s *UserService) UpdateUser(ctx context.Context, id uint, patch UserUpdate, caller models.UserRead) (models.UserRead, error) {
	target, err := s.gate.RequireSelfOrReject(ctx, id, caller)
	if err != nil {
		return models.UserRead{}, err
	}

	if patch.Email != nil && *patch.Email != target.Email {
		taken, err := s.store.Users().ExistsByEmail(ctx, *patch.Email)
		if err != nil {
			return models.UserRead{}, err
		}
		if taken {
			return models.UserRead{}, errs.DuplicateValue(errs.MsgEmailRegistered)
		}
	}
	if patch.Username != nil && *patch.Username != target.Username {
		taken, err := s.store.Users().ExistsByUsername(ctx, *patch.Username)
		if err != nil {
			return models.UserRead{}, err
		}
		if taken {
			return models.UserRead{}, errs.DuplicateValue(errs.MsgUsernameTaken)
		}
	}

	changes := database.UserChanges{Name: patch.Name, Username: patch.Username, Email: patch.Email}
	if err := s.store.Users().Update(ctx, target.ID, changes); err != nil {
		return models.UserRead{}, err
	}

	if patch.Name != nil {
		target.Name = *patch.Name
	}
	if patch.Username != nil {
		target.Username = *patch.Username
	}
	if patch.Email != nil {
		target.Email = *patch.Email
	}
	return target.Read(), nil
}

// RemoveUser soft-deletes the caller's own account and revokes the token used for the call.
func (s *UserService) RemoveUser(ctx context.Context, id uint, caller models.UserRead, token string) (string, error) {
	return s.deleteUser(ctx, id, caller, token, database.Users.SoftDelete)
}

// EraseUser deletes the caller's own row permanently and revokes the token used for the call.
func (s *UserService) EraseUser(ctx context.Context, id uint, caller models.UserRead, token string) (string, error) {
	return s.deleteUser(ctx, id, caller, token, database.Users.HardDelete)
}

func (s *UserService) deleteUser(ctx context.Context, id uint, caller models.UserRead, token string,
	remove func(database.Users, context.Context, uint) error) (string, error) {
	target, err := s.gate.RequireSelfOrReject(ctx, id, caller)
	if err != nil {
		return "", err
	}

	var expiresAt time.Time
	err = s.store.WithTx(ctx, func(tx database.Store) error {
		exp, err := s.tokens.Revoke(ctx, tx, token)
		if err != nil {
			return err
		}
		expiresAt = exp
		return remove(tx.Users(), ctx, target.ID)
	})
	if err != nil {
		return "", err
	}

	s.tokens.Remember(ctx, map[string]time.Time{token: expiresAt})
	logger.FromContext(ctx).Info("user deleted", zap.Uint("user_id", target.ID))
	return errs.MsgUserDeleted, nil
}
