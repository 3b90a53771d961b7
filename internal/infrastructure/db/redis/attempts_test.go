package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, max int, window time.Duration) (*AttemptLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewAttemptLimiter(client, max, window), mr
}

func TestAttemptLimiter_Key(t *testing.T) {
	l := NewAttemptLimiter(nil, 5, 0)
	if got := l.key("65f0c0ffee"); got != "reset:attempts:65f0c0ffee" {
		t.Fatalf("unexpected key: %s", got)
	}
	if l.window != 15*time.Minute {
		t.Fatalf("expected default window, got %s", l.window)
	}
}

func TestAttemptLimiter_AllowedWithoutFailures(t *testing.T) {
	l, _ := newTestLimiter(t, 3, time.Minute)
	ok, err := l.Allowed(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Allowed: %v", err)
	}
	if !ok {
		t.Fatalf("expected a user with no failures to be allowed")
	}
}

func TestAttemptLimiter_BlocksAtLimit(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLimiter(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, err := l.Allowed(ctx, "u1")
		if err != nil {
			t.Fatalf("Allowed: %v", err)
		}
		if !ok {
			t.Fatalf("blocked after %d failures, limit is 3", i)
		}
		if err := l.RecordFailure(ctx, "u1"); err != nil {
			t.Fatalf("RecordFailure: %v", err)
		}
	}

	ok, err := l.Allowed(ctx, "u1")
	if err != nil {
		t.Fatalf("Allowed: %v", err)
	}
	if ok {
		t.Fatalf("expected u1 to be blocked after 3 failures")
	}

	if ok, _ := l.Allowed(ctx, "u2"); !ok {
		t.Fatalf("failures of u1 must not block u2")
	}
}

func TestAttemptLimiter_WindowStartsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestLimiter(t, 3, time.Minute)
	key := l.key("u1")

	if err := l.RecordFailure(ctx, "u1"); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}
	if ttl := mr.TTL(key); ttl != time.Minute {
		t.Fatalf("expected TTL of one window after the first failure, got %s", ttl)
	}

	mr.FastForward(40 * time.Second)
	if err := l.RecordFailure(ctx, "u1"); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}
	if ttl := mr.TTL(key); ttl != 20*time.Second {
		t.Fatalf("a later failure must not extend the window, TTL is %s", ttl)
	}

	if err := l.RecordFailure(ctx, "u1"); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}
	if ok, _ := l.Allowed(ctx, "u1"); ok {
		t.Fatalf("expected u1 to be blocked inside the window")
	}

	mr.FastForward(21 * time.Second)
	ok, err := l.Allowed(ctx, "u1")
	if err != nil {
		t.Fatalf("Allowed: %v", err)
	}
	if !ok {
		t.Fatalf("expected u1 to be allowed once the window passed")
	}
}

func TestAttemptLimiter_Reset(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestLimiter(t, 2, time.Minute)

	for i := 0; i < 2; i++ {
		if err := l.RecordFailure(ctx, "u1"); err != nil {
			t.Fatalf("RecordFailure: %v", err)
		}
	}
	if ok, _ := l.Allowed(ctx, "u1"); ok {
		t.Fatalf("expected u1 to be blocked before Reset")
	}

	if err := l.Reset(ctx, "u1"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if mr.Exists(l.key("u1")) {
		t.Fatalf("expected the counter key to be removed")
	}
	if ok, _ := l.Allowed(ctx, "u1"); !ok {
		t.Fatalf("expected u1 to be allowed after Reset")
	}
}

func TestAttemptLimiter_ServerDown(t *testing.T) {
	l, mr := newTestLimiter(t, 3, time.Minute)
	mr.Close()

	if _, err := l.Allowed(context.Background(), "u1"); err == nil {
		t.Fatalf("expected an error when redis is unreachable")
	}
	if err := l.RecordFailure(context.Background(), "u1"); err == nil {
		t.Fatalf("expected an error when redis is unreachable")
	}
}
