package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/userhub/user-api/internal/core/domain"
	"github.com/userhub/user-api/internal/core/ports"
)

type stubUserCache struct {
	entries     map[string]*domain.User
	invalidated []string
}

func newStubUserCache() *stubUserCache {
	return &stubUserCache{entries: make(map[string]*domain.User)}
}

func (c *stubUserCache) Get(_ context.Context, id string) (*domain.User, error) {
	return cloneUser(c.entries[id]), nil
}

func (c *stubUserCache) Set(_ context.Context, user *domain.User) error {
	c.entries[user.ID] = cloneUser(user)
	return nil
}

func (c *stubUserCache) Invalidate(_ context.Context, id string) error {
	delete(c.entries, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

func newTestUserService(repo *stubUserRepo, cache *stubUserCache) *UserService {
	return NewUserService(repo, cache, bcrypt.MinCost, zerolog.Nop())
}

func seedUser(t *testing.T, repo *stubUserRepo, name, email, role string) *domain.User {
	t.Helper()
	now := time.Now().UTC()
	user, err := repo.Create(context.Background(), &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$04$seedseedseedseedseedse",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

var adminActor = ports.Actor{UserID: "admin_1", Role: domain.RoleAdmin}
var userActor = ports.Actor{UserID: "user_1", Role: domain.RoleUser}

func TestUserService_Create_DefaultsRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, newStubUserCache())

	user, err := svc.Create(context.Background(), userActor, ports.CreateUserInput{
		Name:  "New User",
		Email: "newuser@example.com",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %s", user.Role)
	}
	if user.PasswordHash == "" {
		t.Fatalf("created user must never have an empty password hash")
	}
}

func TestUserService_Create_NonAdminCannotAssignAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, newStubUserCache())

	_, err := svc.Create(context.Background(), userActor, ports.CreateUserInput{
		Name:  "Wannabe",
		Email: "wannabe@example.com",
		Role:  domain.RoleAdmin,
	})
	if err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("no user should have been persisted")
	}
}

func TestUserService_Create_AdminAssignsAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, newStubUserCache())

	user, err := svc.Create(context.Background(), adminActor, ports.CreateUserInput{
		Name:  "Second Admin",
		Email: "admin2@example.com",
		Role:  domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", user.Role)
	}
}

func TestUserService_Create_InvalidRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, newStubUserCache())

	_, err := svc.Create(context.Background(), adminActor, ports.CreateUserInput{
		Name:  "Broken",
		Email: "broken@example.com",
		Role:  "superuser",
	})
	if err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUserService_GetByID_CachesAfterMiss(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubUserCache()
	svc := newTestUserService(repo, cache)
	seeded := seedUser(t, repo, "Cached", "cached@example.com", domain.RoleUser)

	got, err := svc.GetByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ID != seeded.ID {
		t.Fatalf("unexpected user: %+v", got)
	}
	if cache.entries[seeded.ID] == nil {
		t.Fatalf("expected user to be cached after a miss")
	}
}

func TestUserService_GetByID_ServesFromCache(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubUserCache()
	svc := newTestUserService(repo, cache)

	cached := &domain.User{ID: "ghost_1", Name: "Only In Cache", Email: "ghost@example.com", Role: domain.RoleUser}
	_ = cache.Set(context.Background(), cached)

	got, err := svc.GetByID(context.Background(), "ghost_1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Name != "Only In Cache" {
		t.Fatalf("expected cache hit, got %+v", got)
	}
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, newStubUserCache())

	if _, err := svc.GetByID(context.Background(), "missing"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Update_Partial(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, newStubUserCache())
	seeded := seedUser(t, repo, "Before", "before@example.com", domain.RoleUser)

	name := "After"
	updated, err := svc.Update(context.Background(), userActor, seeded.ID, ports.UpdateUserInput{Name: &name})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "After" {
		t.Fatalf("expected updated name, got %s", updated.Name)
	}
	if updated.Email != "before@example.com" {
		t.Fatalf("email should be unchanged, got %s", updated.Email)
	}
}

func TestUserService_Update_EmailCollision(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, newStubUserCache())
	seedUser(t, repo, "First", "first@example.com", domain.RoleUser)
	second := seedUser(t, repo, "Second", "second@example.com", domain.RoleUser)

	email := "first@example.com"
	if _, err := svc.Update(context.Background(), userActor, second.ID, ports.UpdateUserInput{Email: &email}); err != domain.ErrDuplicateEmail {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserService_Update_RoleChangeRequiresAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, newStubUserCache())
	seeded := seedUser(t, repo, "Target", "target@example.com", domain.RoleUser)

	role := domain.RoleAdmin
	if _, err := svc.Update(context.Background(), userActor, seeded.ID, ports.UpdateUserInput{Role: &role}); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-admin role change, got %v", err)
	}

	updated, err := svc.Update(context.Background(), adminActor, seeded.ID, ports.UpdateUserInput{Role: &role})
	if err != nil {
		t.Fatalf("admin role change failed: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Fatalf("expected promoted role, got %s", updated.Role)
	}
}

func TestUserService_Update_InvalidatesCache(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubUserCache()
	svc := newTestUserService(repo, cache)
	seeded := seedUser(t, repo, "Stale", "stale@example.com", domain.RoleUser)
	_ = cache.Set(context.Background(), seeded)

	name := "Fresh"
	if _, err := svc.Update(context.Background(), userActor, seeded.ID, ports.UpdateUserInput{Name: &name}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != seeded.ID {
		t.Fatalf("expected cache invalidation for %s, got %v", seeded.ID, cache.invalidated)
	}
}

func TestUserService_Delete(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubUserCache()
	svc := newTestUserService(repo, cache)
	seeded := seedUser(t, repo, "Doomed", "doomed@example.com", domain.RoleUser)

	if err := svc.Delete(context.Background(), seeded.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), seeded.ID); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}
	if len(cache.invalidated) == 0 {
		t.Fatalf("expected cache invalidation on delete")
	}
}

func TestUserService_Delete_NotFound(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, newStubUserCache())

	if err := svc.Delete(context.Background(), "missing"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
