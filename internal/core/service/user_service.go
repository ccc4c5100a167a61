package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/userhub/user-api/internal/core/domain"
	"github.com/userhub/user-api/internal/core/ports"
)

// UserService implements CRUD over the user collection. Role assignment is
// the one privileged operation: only an admin actor may create or update a
// user with a role other than the default.
type UserService struct {
	repo   ports.UserRepository
	cache  ports.UserCache
	cost   int
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, cache ports.UserCache, bcryptCost int, logger zerolog.Logger) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{repo: repo, cache: cache, cost: bcryptCost, logger: logger}
}

// Create adds a user on behalf of an authenticated actor. Accounts created
// here hold a random initial password hash; the owner logs in only after an
// out-of-band credential reset. A non-admin actor may only create accounts
// with the default user role.
func (s *UserService) Create(ctx context.Context, actor ports.Actor, in ports.CreateUserInput) (*domain.User, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}
	if role != domain.RoleUser && actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	hash, err := s.randomPasswordHash()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("actor_id", actor.UserID).Msg("user created")
	return created, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.FindAll(ctx)
}

// GetByID reads through the cache; any cache failure falls back to the
// repository.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if cached, err := s.cache.Get(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, user); err != nil {
		s.logger.Warn().Err(err).Str("user_id", id).Msg("user cache set failed")
	}
	return user, nil
}

// Update applies a partial update. Changing the role requires an admin
// actor; an email change re-relies on the store's unique index.
func (s *UserService) Update(ctx context.Context, actor ports.Actor, id string, in ports.UpdateUserInput) (*domain.User, error) {
	if in.Role != nil {
		if !domain.ValidRole(*in.Role) {
			return nil, domain.ErrInvalidRole
		}
		if actor.Role != domain.RoleAdmin {
			return nil, domain.ErrForbidden
		}
	}

	updated, err := s.repo.Update(ctx, id, ports.UserUpdate{
		Name:  in.Name,
		Email: in.Email,
		Role:  in.Role,
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("user_id", id).Msg("user cache invalidation failed")
	}
	return updated, nil
}

// Delete removes a user. The admin gate lives in the middleware; by the time
// this runs the actor is known to be an admin.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("user_id", id).Msg("user cache invalidation failed")
	}

	s.logger.Info().Str("user_id", id).Msg("user removed")
	return nil
}

// randomPasswordHash produces a bcrypt digest of 32 random bytes so that a
// stored user never has an empty hash and the account cannot be logged into
// until a real password is set.
func (s *UserService) randomPasswordHash() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(b)), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
