package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"madajob-backend/shared/database"
	"madajob-backend/shared/errs"
	"madajob-backend/shared/logger"
	utils "madajob-backend/shared/utils/auth"
	"madajob-backend/shared/utils/cache"
)

type TokenSettings struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	TokenType  string
}

// TokenPair is the result of a successful login. RefreshToken is empty on refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
}

// TokenService issues, refreshes and revokes tokens.
type TokenService struct {
	store    database.Store
	auth     *Authenticator
	gate     *Gate
	codec    *utils.TokenCodec
	cache    *cache.RevocationCache
	settings TokenSettings
}

func NewTokenService(store database.Store, auth *Authenticator, gate *Gate, codec *utils.TokenCodec, revoked *cache.RevocationCache, settings TokenSettings) *TokenService {
	return &TokenService{
		store:    store,
		auth:     auth,
		gate:     gate,
		codec:    codec,
		cache:    revoked,
		settings: settings,
	}
}

func (s *TokenService) Settings() TokenSettings {
	return s.settings
}

// Login exchanges credentials for an access token and a refresh token, both naming the
// user's username.
func (s *TokenService) Login(ctx context.Context, identifier, password string) (TokenPair, error) {
	user, err := s.auth.Authenticate(ctx, identifier, password)
	if err != nil {
		return TokenPair{}, err
	}
	if user == nil {
		return TokenPair{}, errs.Unauthorized(errs.MsgWrongCredentials)
	}

	subject := jwt.RegisteredClaims{Subject: user.Username}
	access, err := s.codec.Encode(utils.Claims{Use: utils.TokenUseAccess, RegisteredClaims: subject}, s.settings.AccessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.codec.Encode(utils.Claims{Use: utils.TokenUseRefresh, RegisteredClaims: subject}, s.settings.RefreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	logger.FromContext(ctx).Info("user logged in", zap.Uint("user_id", user.ID))
	return TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: s.settings.TokenType}, nil
}

// Refresh issues a new access token for a valid, non-revoked refresh token. Access tokens
// are rejected. The refresh token itself stays valid until it expires or is revoked.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, errs.Unauthorized(errs.MsgNotAuthenticated)
	}
	caller, err := s.gate.ResolveCaller(ctx, refreshToken, utils.TokenUseRefresh)
	if err != nil {
		return TokenPair{}, err
	}

	claims := utils.Claims{Use: utils.TokenUseAccess, RegisteredClaims: jwt.RegisteredClaims{Subject: caller.Username}}
	access, err := s.codec.Encode(claims, s.settings.AccessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	return TokenPair{AccessToken: access, TokenType: s.settings.TokenType}, nil
}

// Logout revokes the access token and, when given, the refresh token.
func (s *TokenService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	tokens := []string{accessToken}
	if refreshToken != "" && refreshToken != accessToken {
		tokens = append(tokens, refreshToken)
	}

	expiries := make(map[string]time.Time, len(tokens))
	err := s.store.WithTx(ctx, func(tx database.Store) error {
		for _, token := range tokens {
			exp, err := s.Revoke(ctx, tx, token)
			if err != nil {
				return err
			}
			expiries[token] = exp
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.Remember(ctx, expiries)
	return nil
}

// Revoke blacklists token inside tx and returns the expiry it was recorded with. An
// existing entry is replaced, so revoking twice is not an error.
func (s *TokenService) Revoke(ctx context.Context, tx database.Store, token string) (time.Time, error) {
	expiresAt := time.Now().Add(s.settings.AccessTTL)
	if claims, err := s.codec.Decode(token); err == nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := tx.TokenBlacklist().Remove(ctx, token); err != nil {
		return time.Time{}, err
	}
	if err := tx.TokenBlacklist().Create(ctx, token, expiresAt); err != nil {
		return time.Time{}, err
	}
	return expiresAt, nil
}

// Remember pushes committed revocations to the cache. Failures only cost a database read.
func (s *TokenService) Remember(ctx context.Context, expiries map[string]time.Time) {
	for token, exp := range expiries {
		if err := s.cache.MarkRevoked(ctx, token, exp); err != nil {
			logger.FromContext(ctx).Warn("revocation cache write failed", zap.Error(err))
		}
	}
}
