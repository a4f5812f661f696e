// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis

import (
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestParseOptions sizes idle connections from the pool size.
*/
func TestParseOptions(t *testing.T) {
	tests := []struct {
		name     string
		poolSize int
		wantPool int
		wantMin  int
		wantMax  int
	}{
		{"default", 0, 10, 2, 5},
		{"small", 2, 2, 1, 1},
		{"large", 40, 40, 8, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options, err := parseOptions("redis://:secret@cache:6380/3", tt.poolSize)
			require.NoError(t, err)

			assert.Equal(t, "cache:6380", options.Addr)
			assert.Equal(t, 3, options.DB)
			assert.Equal(t, "secret", options.Password)
			assert.Equal(t, tt.wantPool, options.PoolSize)
			assert.Equal(t, tt.wantMin, options.MinIdleConns)
			assert.Equal(t, tt.wantMax, options.MaxIdleConns)
			assert.Equal(t, readTimeout, options.ReadTimeout)
		})
	}

	_, err := parseOptions("http://cache:6379", 0)
	assert.ErrorContains(t, err, "redis: invalid URL")
}

/*
TestNewClient connects and pings, and fails fast when Redis is gone.
*/
func TestNewClient(t *testing.T) {
	server := miniredis.RunT(t)
	logger := slog.New(slog.DiscardHandler)

	client, err := NewClient(context.Background(), "redis://"+server.Addr(), 4, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.Equal(t, 4, client.Options().PoolSize)
	assert.NoError(t, Ping(context.Background(), client))

	server.Close()
	assert.ErrorContains(t, Ping(context.Background(), client), "redis: ping failed")

	_, err = NewClient(context.Background(), "redis://"+server.Addr(), 4, logger)
	assert.Error(t, err)
}
