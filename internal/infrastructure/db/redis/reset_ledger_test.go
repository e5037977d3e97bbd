package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLedger(t *testing.T) (*ResetTokenLedger, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewResetTokenLedger(client), mr
}

func TestResetTokenLedger_Key(t *testing.T) {
	l := NewResetTokenLedger(nil)
	if got := l.key("abc-123"); got != "reset:abc-123" {
		t.Fatalf("unexpected key: %s", got)
	}
}

func TestResetTokenLedger_ConsumeOnce(t *testing.T) {
	l, mr := newTestLedger(t)
	ctx := context.Background()

	first, err := l.Consume(ctx, "abc-123", time.Hour)
	if err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if !first {
		t.Fatalf("expected first consume to claim the token")
	}

	again, err := l.Consume(ctx, "abc-123", time.Hour)
	if err != nil {
		t.Fatalf("second consume: %v", err)
	}
	if again {
		t.Fatalf("expected second consume to report the token as used")
	}

	if ttl := mr.TTL("reset:abc-123"); ttl != time.Hour {
		t.Fatalf("expected marker ttl of 1h, got %s", ttl)
	}
}

func TestResetTokenLedger_ConsumeTTLFloor(t *testing.T) {
	l, mr := newTestLedger(t)

	if _, err := l.Consume(context.Background(), "abc-123", 10*time.Millisecond); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if ttl := mr.TTL("reset:abc-123"); ttl < minLedgerTTL {
		t.Fatalf("expected ttl of at least %s, got %s", minLedgerTTL, ttl)
	}
}

func TestResetTokenLedger_MarkerExpires(t *testing.T) {
	l, mr := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.Consume(ctx, "abc-123", time.Minute); err != nil {
		t.Fatalf("consume: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if mr.Exists("reset:abc-123") {
		t.Fatalf("expected marker to expire with the token")
	}
}

func TestResetTokenLedger_Release(t *testing.T) {
	l, mr := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.Consume(ctx, "abc-123", time.Hour); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if err := l.Release(ctx, "abc-123"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if mr.Exists("reset:abc-123") {
		t.Fatalf("expected marker to be removed")
	}

	first, err := l.Consume(ctx, "abc-123", time.Hour)
	if err != nil {
		t.Fatalf("consume after release: %v", err)
	}
	if !first {
		t.Fatalf("expected released token to be claimable again")
	}

	if err := l.Release(ctx, "never-claimed"); err != nil {
		t.Fatalf("releasing an unknown token should be a no-op, got %v", err)
	}
}

func TestResetTokenLedger_ConsumeUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	first, err := NewResetTokenLedger(client).Consume(context.Background(), "abc-123", time.Minute)
	if err == nil {
		t.Fatalf("expected error from unreachable redis")
	}
	if first {
		t.Fatalf("expected first=false on error")
	}
	if !strings.HasPrefix(err.Error(), "reset ledger:") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestConnect_Disabled(t *testing.T) {
	if _, err := Connect(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error for empty address")
	}
}
