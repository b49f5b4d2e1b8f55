package services

import (
	"context"
	"errors"

	"madajob-backend/shared/database"
	"madajob-backend/shared/database/models"
	"madajob-backend/shared/errs"
	utils "madajob-backend/shared/utils/auth"
)

// Authenticator checks login credentials against the user store.
type Authenticator struct {
	store database.Store
}

func NewAuthenticator(store database.Store) *Authenticator {
	return &Authenticator{store: store}
}

// Authenticate returns the matching non-deleted user, or nil when the identifier is unknown
// or the password is wrong. Errors are store failures only.
func (a *Authenticator) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	user, err := lookupUser(ctx, a.store, identifier)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.HashedPassword) {
		return nil, nil
	}
	return &user, nil
}

// lookupUser treats email shaped identifiers as emails and everything else as usernames.
func lookupUser(ctx context.Context, store database.Store, identifier string) (models.User, error) {
	if utils.IsEmail(identifier) {
		return store.Users().GetByEmail(ctx, identifier)
	}
	return store.Users().GetByUsername(ctx, identifier)
}
