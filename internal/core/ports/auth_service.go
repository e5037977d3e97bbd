package ports

import (
	"context"
)

type SignupInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"min=6"`
}

type SigninInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// ForgotPasswordInput only requires an email; a malformed one simply matches
// no user.
type ForgotPasswordInput struct {
	Email string `validate:"required"`
}

type ResetPasswordInput struct {
	Token       string `validate:"required"`
	NewPassword string `validate:"min=6"`
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (string, error)
	Signin(ctx context.Context, in SigninInput) (string, error)
	ValidateToken(ctx context.Context, token string) (string, error)
	ForgotPassword(ctx context.Context, in ForgotPasswordInput) (string, error)
	ResetPassword(ctx context.Context, in ResetPasswordInput) error
}
