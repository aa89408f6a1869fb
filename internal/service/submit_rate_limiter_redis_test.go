package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     int64
	err        error
}

func (m *mockRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func TestRedisSubmitRateLimiterAllow(t *testing.T) {
	t.Run("nil receiver fail-open", func(t *testing.T) {
		var l *redisSubmitRateLimiter
		if !l.Allow("10.0.0.1|f1") {
			t.Fatalf("expected fail-open for nil limiter")
		}
	})

	t.Run("empty key rejected", func(t *testing.T) {
		l := &redisSubmitRateLimiter{
			client: &mockRedisEvaler{result: 1},
			window: time.Minute,
			max:    3,
			prefix: "submit:rl:",
		}
		if l.Allow("   ") {
			t.Fatalf("expected empty key to be rejected")
		}
	})

	t.Run("allow when count within max", func(t *testing.T) {
		mock := &mockRedisEvaler{result: 2}
		l := &redisSubmitRateLimiter{
			client: mock,
			window: 2 * time.Minute,
			max:    3,
			prefix: "submit:rl:",
		}
		if !l.Allow(" 10.0.0.1|F1 ") {
			t.Fatalf("expected allow when count <= max")
		}
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != "submit:rl:10.0.0.1|f1" {
			t.Fatalf("unexpected key normalization, got %+v", mock.lastKeys)
		}
		if len(mock.lastArgs) != 1 || mock.lastArgs[0] != 120 {
			t.Fatalf("expected TTL seconds=120, got %+v", mock.lastArgs)
		}
		if mock.lastScript != redisSubmitAllowScript {
			t.Fatalf("expected script to match")
		}
	})

	t.Run("deny when count exceeds max", func(t *testing.T) {
		l := &redisSubmitRateLimiter{
			client: &mockRedisEvaler{result: 4},
			window: time.Minute,
			max:    3,
			prefix: "submit:rl:",
		}
		if l.Allow("10.0.0.1|f1") {
			t.Fatalf("expected deny when count > max")
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		l := &redisSubmitRateLimiter{
			client: &mockRedisEvaler{err: errors.New("redis down")},
			window: time.Minute,
			max:    3,
			prefix: "submit:rl:",
		}
		if !l.Allow("10.0.0.1|f1") {
			t.Fatalf("expected fail-open on redis errors")
		}
	})
}

func TestSubmitRateLimiterWindow(t *testing.T) {
	l := NewSubmitRateLimiter(50*time.Millisecond, 2)

	if !l.Allow("client") || !l.Allow("client") {
		t.Fatalf("expected first two submissions to pass")
	}
	if l.Allow("client") {
		t.Fatalf("expected third submission within window to be denied")
	}
	if !l.Allow("other-client") {
		t.Fatalf("expected independent keys to be unaffected")
	}

	time.Sleep(70 * time.Millisecond)
	if !l.Allow("client") {
		t.Fatalf("expected allowance after the window elapsed")
	}
}
