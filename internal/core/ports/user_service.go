package ports

import (
	"context"

	"github.com/userhub/user-api/internal/core/domain"
)

// Actor identifies the authenticated caller of a user-management operation.
type Actor struct {
	UserID string
	Role   string
}

// CreateUserInput is the already-validated payload for admin-initiated or
// in-band user creation.
type CreateUserInput struct {
	Name  string
	Email string
	Role  string
}

// UpdateUserInput carries the optional fields of a partial update.
type UpdateUserInput struct {
	Name  *string
	Email *string
	Role  *string
}

// UserService defines use-case operations over the user collection.
type UserService interface {
	Create(ctx context.Context, actor Actor, in CreateUserInput) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, actor Actor, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
