package repository

import (
	"context"
	"time"

	"github.com/ErlanBelekov/magic-auth/internal/domain"
)

type CodeRepository interface {
	Create(ctx context.Context, code *domain.Code) error

	// Claim atomically consumes an unexpired code matching the given value.
	// Returns domain.ErrCodeInvalid if none exists.
	Claim(ctx context.Context, code int, now time.Time) (*domain.Code, error)

	// DeleteExpired removes codes whose expiry is at or before now and
	// reports how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
