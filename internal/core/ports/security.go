package ports

import (
	"context"
	"time"

	"github.com/99minutos/auth-api/internal/core/domain"
)

// PasswordHasher produces and checks salted one-way password hashes.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Verify returns false, nil on mismatch and an error only when hashed is
	// not a valid hash.
	Verify(plain, hashed string) (bool, error)
}

// TokenIssuer signs and verifies time-limited user tokens. Verify rejects a
// token issued for a different purpose with domain.ErrTokenPurpose.
type TokenIssuer interface {
	Issue(userID string, purpose domain.TokenPurpose, ttl time.Duration) (string, error)
	Verify(token string, purpose domain.TokenPurpose) (domain.TokenClaims, error)
}

// ResetTokenLedger remembers consumed password reset tokens.
type ResetTokenLedger interface {
	// Consume marks tokenID as used and reports whether this was the first use.
	Consume(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)
	// Release undoes a Consume whose reset did not go through.
	Release(ctx context.Context, tokenID string) error
}
