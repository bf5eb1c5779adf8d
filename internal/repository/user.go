package repository

import (
	"context"

	"github.com/ErlanBelekov/magic-auth/internal/domain"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, email, username string) (*domain.User, error)
}
