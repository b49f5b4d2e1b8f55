package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "blacklist:"

// RevocationCache remembers revoked tokens in redis in front of the blacklist table.
// Only positive answers are stored, so a miss or an outage always falls back to the
// database. A nil *RevocationCache is a valid, disabled cache.
type RevocationCache struct {
	client *redis.Client
}

// Connect opens a redis client and verifies it with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func NewRevocationCache(client *redis.Client) *RevocationCache {
	if client == nil {
		return nil
	}
	return &RevocationCache{client: client}
}

func revokedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return revokedKeyPrefix + hex.EncodeToString(sum[:])
}

// IsRevoked reports a cached revocation. false means unknown, not valid.
func (rc *RevocationCache) IsRevoked(ctx context.Context, token string) (bool, error) {
	if rc == nil {
		return false, nil
	}
	err := rc.client.Get(ctx, revokedKey(token)).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, fmt.Errorf("revocation cache lookup: %w", err)
	}
}

// MarkRevoked caches the revocation until the token would have expired anyway.
func (rc *RevocationCache) MarkRevoked(ctx context.Context, token string, expiresAt time.Time) error {
	if rc == nil {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := rc.client.Set(ctx, revokedKey(token), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revocation cache store: %w", err)
	}
	return nil
}

func (rc *RevocationCache) Ping(ctx context.Context) error {
	if rc == nil {
		return nil
	}
	return rc.client.Ping(ctx).Err()
}

func (rc *RevocationCache) Close() error {
	if rc == nil {
		return nil
	}
	return rc.client.Close()
}
