// pkg/state/redis.go
package state

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Compare-and-clear server-side so concurrent callbacks racing on the same
// token cannot both consume it.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  redis.call("DEL", KEYS[1])
  return 1
end
if redis.call("EXISTS", KEYS[1]) == 1 then
  return -1
end
return 0
`)

type redisStore struct {
	cli *redis.Client
}

// NewRedisStore returns a Redis-backed state store; TTL handling and the
// single-use guarantee are delegated to Redis itself.
func NewRedisStore(cli *redis.Client) Store {
	return &redisStore{cli: cli}
}

func (s *redisStore) key(shop string) string { return "state:" + shop }

func (s *redisStore) Save(ctx context.Context, shop, state string, ttl time.Duration) error {
	return s.cli.Set(ctx, s.key(shop), state, ttl).Err()
}

func (s *redisStore) Consume(ctx context.Context, shop, state string) error {
	n, err := consumeScript.Run(ctx, s.cli, []string{s.key(shop)}, state).Int()
	if err != nil {
		return err
	}
	switch n {
	case 1:
		return nil
	case -1:
		return ErrMismatch
	default:
		return ErrNotFound
	}
}
