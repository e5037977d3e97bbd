package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// minLedgerTTL keeps a marker around even for a token that is about to expire.
const minLedgerTTL = time.Second

// ResetTokenLedger records consumed password reset tokens so each one can be
// redeemed once. Key format: reset:<token_id>
type ResetTokenLedger struct {
	client *redis.Client
}

// NewResetTokenLedger creates a ResetTokenLedger wrapping the given Redis client.
func NewResetTokenLedger(client *redis.Client) *ResetTokenLedger {
	return &ResetTokenLedger{client: client}
}

// Consume atomically claims tokenID. It reports false when the token was
// already claimed. The marker lives for ttl, which callers set to the token's
// remaining lifetime.
func (l *ResetTokenLedger) Consume(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if ttl < minLedgerTTL {
		ttl = minLedgerTTL
	}
	ok, err := l.client.SetNX(ctx, l.key(tokenID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reset ledger: %w", err)
	}
	return ok, nil
}

// Release drops the claim on tokenID so the token can be redeemed again.
func (l *ResetTokenLedger) Release(ctx context.Context, tokenID string) error {
	if err := l.client.Del(ctx, l.key(tokenID)).Err(); err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}
	return nil
}

func (l *ResetTokenLedger) key(tokenID string) string {
	return "reset:" + tokenID
}
