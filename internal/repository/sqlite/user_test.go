package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/gccheapcars/rental-api/internal/apperror"
	"github.com/gccheapcars/rental-api/internal/model"
)

func createTestUser(t *testing.T, repo *UserRepo, email string, role model.Role) *model.User {
	t.Helper()
	user := &model.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$04$fakehashfortestingonly",
		Role:         role,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestUserCreate_DefaultsRole(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))

	user := &model.User{
		Name:         "No Role",
		Email:        "norole@example.com",
		PasswordHash: "hash",
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.Role != model.RoleUser {
		t.Errorf("Role = %q, want %q", user.Role, model.RoleUser)
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))

	createTestUser(t, repo, "dup@example.com", model.RoleUser)

	dup := &model.User{Name: "Again", Email: "dup@example.com", PasswordHash: "hash"}
	err := repo.Create(context.Background(), dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}
}

func TestUserGetByEmail(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))

	created := createTestUser(t, repo, "login@example.com", model.RoleAdmin)

	found, err := repo.GetByEmail(context.Background(), "login@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %d, want %d", found.ID, created.ID)
	}
	if found.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want %q", found.Role, model.RoleAdmin)
	}
	// The hash must come back — the login flow verifies against it.
	if found.PasswordHash == "" {
		t.Error("GetByEmail() did not return the password hash")
	}
}

func TestUserGetByEmail_NotFound(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrNotFound", err)
	}
}

func TestUserUpdateRole(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	created := createTestUser(t, repo, "promote@example.com", model.RoleUser)

	if err := repo.UpdateRole(ctx, created.ID, model.RoleAdmin); err != nil {
		t.Fatalf("UpdateRole() error = %v", err)
	}

	found, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Role != model.RoleAdmin {
		t.Errorf("Role = %q after promotion, want %q", found.Role, model.RoleAdmin)
	}
}

func TestUserUpdateRole_NotFound(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))

	err := repo.UpdateRole(context.Background(), 9999, model.RoleAdmin)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateRole() error = %v, want ErrNotFound", err)
	}
}

func TestUserList(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))

	createTestUser(t, repo, "a@example.com", model.RoleUser)
	createTestUser(t, repo, "b@example.com", model.RoleAdmin)

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 2 {
		t.Errorf("List() returned %d users, want 2", len(users))
	}
}
