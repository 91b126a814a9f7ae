package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Total int `json:"total"`
}

func TestStatsCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	c := &StatsCache{store: mock, ttl: 30 * time.Second}

	var got sample
	assert.False(t, c.GetJSON(ctx, Key("admin"), &got))

	c.SetJSON(ctx, Key("admin"), sample{Total: 7})
	require.True(t, c.GetJSON(ctx, Key("admin"), &got))
	assert.Equal(t, 7, got.Total)
	assert.Equal(t, 30*time.Second, mock.ttls[Key("admin")])

	c.Invalidate(ctx, Key("admin"))
	assert.False(t, c.GetJSON(ctx, Key("admin"), &got))
}

func TestNilStatsCacheMisses(t *testing.T) {
	var c *StatsCache
	var got sample
	assert.False(t, c.GetJSON(context.Background(), "k", &got))
	assert.NotPanics(t, func() {
		c.SetJSON(context.Background(), "k", sample{})
		c.Invalidate(context.Background(), "k")
		_ = c.Close()
	})
}

func TestKeySkipsEmptyParts(t *testing.T) {
	assert.Equal(t, "parkspace:stats:admin", Key("admin"))
	assert.Equal(t, "parkspace:stats:owner:abc", Key("owner", "", "abc"))
}

type mockCmdable struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	default:
		m.data[key] = fmt.Sprint(v)
	}
	m.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(m.data, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
