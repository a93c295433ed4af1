// pkg/tokens/redis.go
package tokens

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "shop:"

// redisStore keeps one hash per shop under "shop:<domain>" with fields
// token/scope/installed_at, matching the KV layout of the original
// deployment so existing records survive a cutover.
type redisStore struct {
	cli *redis.Client
	now func() time.Time
}

func NewRedisStore(cli *redis.Client) Store {
	return &redisStore{cli: cli, now: time.Now}
}

func (s *redisStore) Put(ctx context.Context, shop, token, scope string) error {
	return s.cli.HSet(ctx, keyPrefix+shop, map[string]any{
		"token":        token,
		"scope":        scope,
		"installed_at": s.now().Unix(),
	}).Err()
}

func (s *redisStore) Get(ctx context.Context, shop string) (Record, error) {
	vals, err := s.cli.HGetAll(ctx, keyPrefix+shop).Result()
	if err != nil {
		return Record{}, err
	}
	if len(vals) == 0 {
		return Record{}, ErrNotFound
	}
	return recordFromHash(shop, vals), nil
}

func (s *redisStore) List(ctx context.Context, shopFilter string) ([]Record, error) {
	if shopFilter != "" {
		rec, err := s.Get(ctx, shopFilter)
		if err == ErrNotFound {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []Record{rec}, nil
	}
	var out []Record
	iter := s.cli.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		vals, err := s.cli.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, err
		}
		if len(vals) == 0 {
			continue
		}
		out = append(out, recordFromHash(key[len(keyPrefix):], vals))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *redisStore) Delete(ctx context.Context, shop string) error {
	return s.cli.Del(ctx, keyPrefix+shop).Err()
}

func recordFromHash(shop string, vals map[string]string) Record {
	rec := Record{Shop: shop, Token: vals["token"], Scope: vals["scope"]}
	if ts, err := strconv.ParseInt(vals["installed_at"], 10, 64); err == nil {
		rec.InstalledAt = time.Unix(ts, 0).UTC()
	}
	return rec
}
