package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/99minutos/auth-api/internal/core/domain"
)

// tokenSubject is the {"user":{"id":...}} payload clients already decode.
type tokenSubject struct {
	ID string `json:"id"`
}

type claims struct {
	User tokenSubject `json:"user"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 tokens with a single secret held for the process
// lifetime.
type JWTIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewJWTIssuer(secret string) (*JWTIssuer, error) {
	if secret == "" {
		return nil, domain.ErrSigningKeyMissing
	}
	return &JWTIssuer{secret: []byte(secret), now: time.Now}, nil
}

// Issue returns a signed token for userID that expires after ttl. The purpose
// travels in the aud claim. Every token gets its own jti, so two tokens for the
// same user never collide.
func (i *JWTIssuer) Issue(userID string, purpose domain.TokenPurpose, ttl time.Duration) (string, error) {
	now := i.now()
	c := claims{
		User: tokenSubject{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Audience:  jwt.ClaimStrings{string(purpose)},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (i *JWTIssuer) Verify(token string, purpose domain.TokenPurpose) (domain.TokenClaims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithAudience(string(purpose)),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return domain.TokenClaims{}, classify(err)
	}
	if c.User.ID == "" {
		return domain.TokenClaims{}, domain.ErrTokenMalformed
	}

	return domain.TokenClaims{
		UserID:    c.User.ID,
		TokenID:   c.ID,
		Purpose:   purpose,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrTokenSignature
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return domain.ErrTokenPurpose
	case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return domain.ErrTokenMalformed
	default:
		return fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
}
