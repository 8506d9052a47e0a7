package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"minimart/internal/models"
)

// RedisStore keeps carts as JSON under "<prefix>:cart:<session>" with a
// sliding expiry, so carts survive restarts and are shared between instances.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "minimart"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(sessionID string) string {
	return fmt.Sprintf("%s:cart:%s", s.prefix, sessionID)
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (models.Cart, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		return models.Cart{SessionID: sessionID}, nil
	}
	if err != nil {
		return models.Cart{}, fmt.Errorf("load cart %s: %w", sessionID, err)
	}

	var c models.Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return models.Cart{}, fmt.Errorf("decode cart %s: %w", sessionID, err)
	}
	c.SessionID = sessionID
	return c, nil
}

func (s *RedisStore) Save(ctx context.Context, c models.Cart) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", c.SessionID, err)
	}
	if err := s.client.Set(ctx, s.key(c.SessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save cart %s: %w", c.SessionID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete cart %s: %w", sessionID, err)
	}
	return nil
}
