package ports

import (
	"context"

	"github.com/userhub/user-api/internal/core/domain"
)

// SignupInput is the already-validated payload for account creation.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService implements signup and login.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
