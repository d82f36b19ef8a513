package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gccheapcars/rental-api/internal/apperror"
	"github.com/gccheapcars/rental-api/internal/auth"
	"github.com/gccheapcars/rental-api/internal/model"
)

type mockUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return apperror.Conflict("user", "email already registered")
		}
	}
	m.nextID++
	user.ID = m.nextID
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			result := *user
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, nil
}

func (m *mockUserRepo) UpdateRole(_ context.Context, id int64, role model.Role) error {
	user, ok := m.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	user.Role = role
	return nil
}

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	repo := newMockUserRepo()
	passwords := auth.NewPasswordService()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars-long")
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return NewAuthService(repo, passwords, tokens, testLogger()), repo
}

// registerTestUser goes through the real Register path so the stored hash
// is a genuine bcrypt hash.
func registerTestUser(t *testing.T, svc *AuthService, email, password string) *model.User {
	t.Helper()
	user, err := svc.Register(context.Background(), "Test User", email, password)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return user
}

func TestLogin_Success(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "owner@example.com", "a strong password")

	result, err := svc.Login(ctx, "owner@example.com", "a strong password")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" {
		t.Error("Login() returned empty token")
	}
	if result.User == nil || result.User.Email != "owner@example.com" {
		t.Error("Login() did not return the user record")
	}
}

func TestLogin_NormalizesEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "owner@example.com", "a strong password")

	// Mixed case and stray spaces must still log in.
	_, err := svc.Login(ctx, "  Owner@Example.COM ", "a strong password")
	if err != nil {
		t.Errorf("Login() with unnormalized email error = %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "owner@example.com", "a strong password")

	_, err := svc.Login(ctx, "owner@example.com", "not the password")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	// Unknown email maps to the SAME unauthorized error as a wrong
	// password — not a 404 that confirms the address exists.
	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever pass")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "", "password"); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("empty email: error = %v, want ErrValidation", err)
	}
	if _, err := svc.Login(ctx, "a@b.com", ""); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("empty password: error = %v, want ErrValidation", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "owner@example.com", "a strong password")

	_, err := svc.Register(ctx, "Other", "owner@example.com", "another password")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), "Test", "t@example.com", "short")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}
