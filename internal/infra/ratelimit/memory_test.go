package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return now }})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		decision, err := limiter.Allow(ctx, "ip:1", 2, time.Minute)
		if err != nil || !decision.Allowed {
			t.Fatalf("hit %d: expected allow, got %+v err=%v", i, decision, err)
		}
	}
	decision, err := limiter.Allow(ctx, "ip:1", 2, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Allowed || decision.Remaining != 0 {
		t.Fatalf("expected deny, got %+v", decision)
	}
	if !decision.ResetAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("unexpected reset: %s", decision.ResetAt)
	}

	now = now.Add(time.Minute + time.Second)
	decision, err = limiter.Allow(ctx, "ip:1", 2, time.Minute)
	if err != nil || !decision.Allowed || decision.Remaining != 1 {
		t.Fatalf("expected fresh window, got %+v err=%v", decision, err)
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryLimiterConfig{})
	ctx := context.Background()
	if d, _ := limiter.Allow(ctx, "a", 1, time.Minute); !d.Allowed {
		t.Fatalf("expected allow for a")
	}
	if d, _ := limiter.Allow(ctx, "b", 1, time.Minute); !d.Allowed {
		t.Fatalf("expected allow for b")
	}
	if d, _ := limiter.Allow(ctx, "a", 1, time.Minute); d.Allowed {
		t.Fatalf("expected deny for a")
	}
}

func TestMemoryLimiterCapacity(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryLimiterConfig{MaxKeys: 1})
	ctx := context.Background()
	if _, err := limiter.Allow(ctx, "a", 1, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := limiter.Allow(ctx, "b", 1, time.Minute); err == nil {
		t.Fatalf("expected capacity error")
	}
}

func TestMemoryLimiterDisabledLimit(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryLimiterConfig{})
	decision, err := limiter.Allow(context.Background(), "a", 0, time.Minute)
	if err != nil || !decision.Allowed {
		t.Fatalf("expected allow with no limit, got %+v err=%v", decision, err)
	}
}
