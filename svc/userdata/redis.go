package userdata

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/reservekit/svc/refresh"
)

const defaultKeyPrefix = "reservekit:userdata"

// RedisStore shares snapshots between processes. Keys expire after ttl;
// zero keeps them forever.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, cfg Config) *RedisStore {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: cfg.TTL}
}

func (s *RedisStore) Save(ctx context.Context, userID string, snap Snapshot) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return errors.Join(ErrEncode, err)
	}
	return s.client.Set(ctx, storeKey(s.prefix, userID, snap.Area), payload, s.ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, userID string, area refresh.Area) (Snapshot, error) {
	if userID == "" {
		return Snapshot{}, ErrEmptyUserID
	}

	payload, err := s.client.Get(ctx, storeKey(s.prefix, userID, area)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return Snapshot{}, errors.Join(ErrDecode, err)
	}
	return snap, nil
}

func (s *RedisStore) Delete(ctx context.Context, userID string, area refresh.Area) error {
	return s.client.Del(ctx, storeKey(s.prefix, userID, area)).Err()
}
