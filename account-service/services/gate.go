package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"madajob-backend/shared/database"
	"madajob-backend/shared/database/models"
	"madajob-backend/shared/errs"
	"madajob-backend/shared/logger"
	utils "madajob-backend/shared/utils/auth"
	"madajob-backend/shared/utils/cache"
)

// Gate resolves bearer tokens to callers and enforces role and ownership rules.
type Gate struct {
	store database.Store
	codec *utils.TokenCodec
	cache *cache.RevocationCache
}

func NewGate(store database.Store, codec *utils.TokenCodec, revoked *cache.RevocationCache) *Gate {
	return &Gate{store: store, codec: codec, cache: revoked}
}

// ResolveCaller turns a token of the given use into the caller it names. Every rejection
// is the same Unauthorized error so clients cannot tell which check failed.
func (g *Gate) ResolveCaller(ctx context.Context, token string, use utils.TokenUse) (models.UserRead, error) {
	notAuthenticated := errs.Unauthorized(errs.MsgNotAuthenticated)

	revoked, err := g.isRevoked(ctx, token)
	if err != nil {
		return models.UserRead{}, err
	}
	if revoked {
		return models.UserRead{}, notAuthenticated
	}

	claims, err := g.codec.Decode(token)
	if err != nil || claims.Subject == "" || claims.Use != use {
		return models.UserRead{}, notAuthenticated
	}

	user, err := lookupUser(ctx, g.store, claims.Subject)
	if errors.Is(err, errs.ErrNotFound) {
		return models.UserRead{}, notAuthenticated
	}
	if err != nil {
		return models.UserRead{}, err
	}
	return user.Read(), nil
}

// isRevoked asks the cache first and the blacklist table on a miss. A cache failure is
// logged and treated as a miss.
func (g *Gate) isRevoked(ctx context.Context, token string) (bool, error) {
	log := logger.FromContext(ctx)

	cached, err := g.cache.IsRevoked(ctx, token)
	if err != nil {
		log.Warn("revocation cache unavailable", zap.Error(err))
	}
	if cached {
		return true, nil
	}

	revoked, err := g.store.TokenBlacklist().Exists(ctx, token)
	if err != nil {
		return false, err
	}
	if revoked {
		if claims, decodeErr := g.codec.Decode(token); decodeErr == nil {
			if err := g.cache.MarkRevoked(ctx, token, claims.ExpiresAt.Time); err != nil {
				log.Warn("revocation cache write failed", zap.Error(err))
			}
		}
	}
	return revoked, nil
}

func (g *Gate) RequireSuperuser(caller models.UserRead) (models.UserRead, error) {
	if !caller.IsSuperuser {
		return models.UserRead{}, errs.Forbidden(errs.MsgNotEnoughPrivileges)
	}
	return caller, nil
}

// RequireSelfOrReject loads the target user and allows the call only when the caller is
// that user. Superusers get no exemption.
func (g *Gate) RequireSelfOrReject(ctx context.Context, targetID uint, caller models.UserRead) (models.User, error) {
	target, err := g.store.Users().GetByID(ctx, targetID)
	if err != nil {
		return models.User{}, err
	}
	if target.Username != caller.Username {
		return models.User{}, errs.Forbidden(errs.MsgNotEnoughPrivileges)
	}
	return target, nil
}
