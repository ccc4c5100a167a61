package ports

import (
	"context"

	"github.com/userhub/user-api/internal/core/domain"
)

// UserCache is a best-effort read cache in front of the repository.
// Get returns (nil, nil) on a miss; any error degrades to a repository
// lookup and never reaches the client.
type UserCache interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
	Invalidate(ctx context.Context, id string) error
}
