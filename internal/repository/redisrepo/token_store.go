package redisrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "pawscout:session-token:"

// TokenStore keeps issued session tokens so they can be validated and
// revoked independently of their JWT expiry.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) SaveToken(ctx context.Context, token, sessionID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, tokenKeyPrefix+token, sessionID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}
	return nil
}

// ValidateTokenFromRedis returns the session id a token was issued for.
func (s *TokenStore) ValidateTokenFromRedis(ctx context.Context, token string) (string, error) {
	sessionID, err := s.client.Get(ctx, tokenKeyPrefix+token).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("token not found")
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up session token: %w", err)
	}
	return sessionID, nil
}

func (s *TokenStore) DeleteToken(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, tokenKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete session token: %w", err)
	}
	return nil
}
