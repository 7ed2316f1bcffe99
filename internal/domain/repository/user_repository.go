package repository

import (
	"context"

	"clinic-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error

	// SetActive flips the account flag and returns affected rows so callers
	// can tell a real transition from a no-op.
	SetActive(ctx context.Context, id uuid.UUID, active bool) (int64, error)
}
