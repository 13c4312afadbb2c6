package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/productmgmt-backend/pkg/config"
	"github.com/redis/go-redis/v9"
)

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	key := client.CurrencyKey("eur")
	if err := client.Set(ctx, key, `{"code":"EUR"}`, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if mock.ttls[key] != time.Minute {
		t.Fatalf("expected ttl to be forwarded, got %s", mock.ttls[key])
	}
	got, err := client.Get(ctx, key)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != `{"code":"EUR"}` {
		t.Fatalf("unexpected cached value %q", got)
	}

	if err := client.Del(ctx, key); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, key); !IsMiss(err) {
		t.Fatalf("expected cache miss after delete, got %v", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.CurrencyKey("eur"); got != "pm:directory:currency:EUR" {
		t.Fatalf("unexpected currency key %s", got)
	}
	if got := client.CurrencyKey(" "); got != "pm:directory:currency" {
		t.Fatalf("blank parts should be skipped, got %s", got)
	}
	if got := client.LocalesKey(); got != "pm:directory:locales" {
		t.Fatalf("unexpected locales key %s", got)
	}
}

func TestUninitializedClient(t *testing.T) {
	var client *Client
	if err := client.Ping(context.Background()); err == nil {
		t.Fatalf("expected error from nil client")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close on nil client should be a no-op, got %v", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatalf("expected error without url or address")
	}

	opts, err := optionsFromConfig(config.RedisConfig{
		Address:     "localhost:6379",
		DB:          3,
		PoolSize:    7,
		DialTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.DB != 3 || opts.PoolSize != 7 || opts.DialTimeout != 2*time.Second {
		t.Fatalf("unexpected options %+v", opts)
	}

	opts, err = optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6380/2", PoolSize: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" || opts.DB != 2 || opts.PoolSize != 4 {
		t.Fatalf("unexpected url options %+v", opts)
	}
}

type mockCmdable struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
