package domain

import "time"

// User models a registered account. Email is the unique lookup key and is
// stored lowercased.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TokenPurpose scopes a token to the flow it was issued for. A session token
// cannot reset a password and a reset token cannot authenticate a request.
type TokenPurpose string

const (
	PurposeSession TokenPurpose = "session"
	PurposeReset   TokenPurpose = "reset"
)

// TokenClaims is what a verified token asserts.
type TokenClaims struct {
	UserID    string
	TokenID   string
	Purpose   TokenPurpose
	ExpiresAt time.Time
}
