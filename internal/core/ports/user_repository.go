package ports

import (
	"context"

	"github.com/userhub/user-api/internal/core/domain"
)

// UserUpdate carries the partial fields of an update. A nil field is left
// unchanged.
type UserUpdate struct {
	Name  *string
	Email *string
	Role  *string
}

// UserRepository defines the persistence interface for the user collection.
// Email uniqueness is enforced by the store itself (unique index), not by
// the caller; Create and Update return domain.ErrDuplicateEmail when the
// constraint is violated.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
