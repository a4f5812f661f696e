// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yomira-auth/internal/platform/constants"
)

// RedisStore implements [Store] using Redis string keys with expiry.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// key builds the namespaced Redis key for a session id.
func key(id string) string {
	return constants.RedisPrefixSession + id
}

/*
Load retrieves and decodes a session record.

Parameters:
  - ctx: context.Context
  - id: string

Returns:
  - *Data: Decoded record
  - error: ErrNotFound or connectivity errors
*/
func (store *RedisStore) Load(ctx context.Context, id string) (*Data, error) {

	// Fetch the raw payload
	payload, err := store.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	// Decode into the fixed-shape record
	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}

	return &data, nil
}

/*
Save stores a session record with its TTL.

Parameters:
  - ctx: context.Context
  - id: string
  - data: *Data
  - ttl: time.Duration

Returns:
  - error: Encoding or storage failures
*/
func (store *RedisStore) Save(ctx context.Context, id string, data *Data, ttl time.Duration) error {

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	if err := store.client.Set(ctx, key(id), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}

	return nil
}

/*
Delete removes a session record from Redis.

Parameters:
  - ctx: context.Context
  - id: string

Returns:
  - error: Deletion failures
*/
func (store *RedisStore) Delete(ctx context.Context, id string) error {
	if err := store.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}
