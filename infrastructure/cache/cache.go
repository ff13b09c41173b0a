package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewCache connects a redis client. A nil client is returned (with the error)
// when redis is unreachable; callers fall back to in-memory storage.
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
