package idem

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store remembers sequence tokens it has seen. PutNX reports true for
// a first sighting and false for a redelivery within the TTL window.
// Del forgets a token so a later redelivery is treated as fresh again.
type Store interface {
	PutNX(ctx context.Context, token string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, token string) error
}

type redisStore struct{ r *redis.Client }

func New(rdb *redis.Client) Store {
	return &redisStore{r: rdb}
}

func (s *redisStore) PutNX(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	return s.r.SetNX(ctx, "seen:"+token, "1", ttl).Result()
}

func (s *redisStore) Del(ctx context.Context, token string) error {
	return s.r.Del(ctx, "seen:"+token).Err()
}
