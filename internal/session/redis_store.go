package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sess:"

var _ Store = (*RedisStore)(nil)

// RedisStore keeps sessions in redis. It exclusively owns the `sess:`
// key namespace; nothing else writes there.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) key(sid string) string {
	return keyPrefix + sid
}

func (s *RedisStore) Get(ctx context.Context, sid string) (*Record, error) {
	val, err := s.client.Get(ctx, s.key(sid)).Result()
	if err == redis.Nil {
		return nil, nil // no session
	}
	if err != nil {
		return nil, fmt.Errorf("session: get %q: %w", sid, err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return &rec, nil
}

func (s *RedisStore) Set(ctx context.Context, sid string, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session: marshal record: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sid), data, rec.TTL()).Err(); err != nil {
		return fmt.Errorf("session: set %q: %w", sid, err)
	}
	return nil
}

func (s *RedisStore) Destroy(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, s.key(sid)).Err(); err != nil {
		return fmt.Errorf("session: destroy %q: %w", sid, err)
	}
	return nil
}

func (s *RedisStore) Touch(ctx context.Context, sid string, rec *Record) error {
	// EXPIRE on a missing key reports false, not an error; callers must
	// not assume the session survived.
	if err := s.client.Expire(ctx, s.key(sid), rec.TTL()).Err(); err != nil {
		return fmt.Errorf("session: touch %q: %w", sid, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("session: scan keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}
