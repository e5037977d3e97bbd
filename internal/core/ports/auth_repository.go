package ports

import (
	"context"

	"github.com/99minutos/auth-api/internal/core/domain"
)

// AuthRepository defines the interface for user credential persistence.
// Implementations return domain.ErrUserNotFound for missing records and
// domain.ErrUserExists when an email is already taken.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}
