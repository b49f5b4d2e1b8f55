package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"madajob-backend/shared/database/models"
	"madajob-backend/shared/errs"
)

type usersRepo struct {
	db *gorm.DB
}

func (r *usersRepo) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("is_deleted = ?", false)
}

func (r *usersRepo) Create(ctx context.Context, u *models.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("create user: %w", translate(err, errs.MsgUserNotFound))
	}
	return nil
}

func (r *usersRepo) getBy(ctx context.Context, column string, value interface{}) (models.User, error) {
	var user models.User
	err := r.active(ctx).Where(column+" = ?", value).First(&user).Error
	if err != nil {
		return models.User{}, translate(err, errs.MsgUserNotFound)
	}
	return user, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *usersRepo) existsBy(ctx context.Context, column, value string) (bool, error) {
	var count int64
	if err := r.active(ctx).Where(column+" = ?", value).Limit(1).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check user %s: %w", column, err)
	}
	return count > 0, nil
}

func (r *usersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.existsBy(ctx, "email", email)
}

func (r *usersRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.existsBy(ctx, "username", username)
}

func (r *usersRepo) Update(ctx context.Context, id uint, changes UserChanges) error {
	values := map[string]interface{}{"updated_at": time.Now().UTC()}
	if changes.Name != nil {
		values["name"] = *changes.Name
	}
	if changes.Username != nil {
		values["username"] = *changes.Username
	}
	if changes.Email != nil {
		values["email"] = *changes.Email
	}
	return r.updateActive(ctx, id, values)
}

func (r *usersRepo) UpdatePassword(ctx context.Context, id uint, hashedPassword string) error {
	return r.updateActive(ctx, id, map[string]interface{}{
		"hashed_password": hashedPassword,
		"updated_at":      time.Now().UTC(),
	})
}

func (r *usersRepo) SoftDelete(ctx context.Context, id uint) error {
	now := time.Now().UTC()
	return r.updateActive(ctx, id, map[string]interface{}{
		"is_deleted": true,
		"deleted_at": now,
		"updated_at": now,
	})
}

func (r *usersRepo) updateActive(ctx context.Context, id uint, values map[string]interface{}) error {
	result := r.active(ctx).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return fmt.Errorf("update user %d: %w", id, translate(result.Error, errs.MsgUserNotFound))
	}
	if result.RowsAffected == 0 {
		return errs.NotFound(errs.MsgUserNotFound)
	}
	return nil
}

func (r *usersRepo) HardDelete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete user %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NotFound(errs.MsgUserNotFound)
	}
	return nil
}

func (r *usersRepo) List(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	matching := func() *gorm.DB {
		return r.active(ctx).Where("is_superuser = ?", filter.IsSuperuser)
	}

	var total int64
	if err := matching().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	users := make([]models.User, 0, filter.Limit)
	err := matching().Order("id ASC").Offset(filter.Offset).Limit(filter.Limit).Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}
