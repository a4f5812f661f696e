// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-auth/internal/users/session"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, client
}

/*
TestRedisStore_RoundTrip saves, loads and deletes a record under the namespaced key.
*/
func TestRedisStore_RoundTrip(t *testing.T) {
	server, client := newRedis(t)
	store := session.NewRedisStore(client)
	ctx := context.Background()

	data := &session.Data{
		ID:         "user-1",
		Name:       "Alice Doe",
		Email:      "alice@example.com",
		IsLoggedIn: true,
		Flashes:    []session.Flash{{Level: session.FlashSuccess, Message: "Welcome"}},
	}
	require.NoError(t, store.Save(ctx, "sid-1", data, time.Hour))

	assert.True(t, server.Exists("auth:session:sid-1"))
	assert.Equal(t, time.Hour, server.TTL("auth:session:sid-1"))

	loaded, err := store.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, data, loaded)

	require.NoError(t, store.Delete(ctx, "sid-1"))
	_, err = store.Load(ctx, "sid-1")
	assert.ErrorIs(t, err, session.ErrNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, store.Delete(ctx, "sid-1"))
}

/*
TestRedisStore_Expiry treats an expired record as missing.
*/
func TestRedisStore_Expiry(t *testing.T) {
	server, client := newRedis(t)
	store := session.NewRedisStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid-2", &session.Data{IsLoggedIn: true, ID: "u"}, time.Minute))
	server.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "sid-2")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

/*
TestRedisStore_Unavailable surfaces connectivity failures as errors.
*/
func TestRedisStore_Unavailable(t *testing.T) {
	server, client := newRedis(t)
	store := session.NewRedisStore(client)
	server.Close()

	_, err := store.Load(context.Background(), "sid-3")
	require.Error(t, err)
	assert.NotErrorIs(t, err, session.ErrNotFound)
}
