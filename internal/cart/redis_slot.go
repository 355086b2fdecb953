package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "pos:cart:"

// RedisSlot persists carts as JSON blobs in Redis, one key per owner.
// No TTL: a cart lives until checkout clears it or the cashier empties it.
type RedisSlot struct {
	client *redis.Client
}

func NewRedisSlot(client *redis.Client) *RedisSlot {
	return &RedisSlot{client: client}
}

func redisKey(owner string) string {
	return redisKeyPrefix + owner
}

func (r *RedisSlot) Load(ctx context.Context, owner string) ([]Line, error) {
	data, err := r.client.Get(ctx, redisKey(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return lines, nil
}

func (r *RedisSlot) Save(ctx context.Context, owner string, lines []Line) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := r.client.Set(ctx, redisKey(owner), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisSlot) Clear(ctx context.Context, owner string) error {
	if err := r.client.Del(ctx, redisKey(owner)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}
