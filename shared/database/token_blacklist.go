package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"madajob-backend/shared/database/models/auth"
)

type tokenBlacklistRepo struct {
	db *gorm.DB
}

func (r *tokenBlacklistRepo) Exists(ctx context.Context, token string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&auth.BlacklistedToken{}).Where("token = ?", token).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check blacklisted token: %w", err)
	}
	return count > 0, nil
}

func (r *tokenBlacklistRepo) Create(ctx context.Context, token string, expiresAt time.Time) error {
	entry := auth.BlacklistedToken{Token: token, ExpiresAt: expiresAt.UTC()}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("blacklist token: %w", translate(err, ""))
	}
	return nil
}

func (r *tokenBlacklistRepo) Remove(ctx context.Context, token string) error {
	err := r.db.WithContext(ctx).Where("token = ?", token).Delete(&auth.BlacklistedToken{}).Error
	if err != nil {
		return fmt.Errorf("remove blacklisted token: %w", err)
	}
	return nil
}
