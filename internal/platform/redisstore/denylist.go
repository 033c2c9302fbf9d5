package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrEmptyTokenID is returned when a token without a jti is revoked or checked.
var ErrEmptyTokenID = errors.New("token id cannot be empty")

// TokenDenylist records revoked token ids until the tokens would have
// expired anyway.
type TokenDenylist struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewTokenDenylist creates a denylist storing keys under prefix.
func NewTokenDenylist(client *redis.Client, prefix string) *TokenDenylist {
	if prefix == "" {
		prefix = "revoked:"
	}
	return &TokenDenylist{client: client, prefix: prefix, now: time.Now}
}

// Revoke denylists tokenID until expiresAt. Already expired tokens are
// not stored.
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return ErrEmptyTokenID
	}

	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}

	if err := d.client.Set(ctx, d.prefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked.
func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, ErrEmptyTokenID
	}

	n, err := d.client.Exists(ctx, d.prefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}
