package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"caselaw-kenya/internal/domain"
	"caselaw-kenya/internal/repository"
)

// mockUserRepository is an in-memory UserRepository.
type mockUserRepository struct {
	nextID int64
	byID   map[int64]*domain.User
	byMail map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		byID:   make(map[int64]*domain.User),
		byMail: make(map[string]*domain.User),
	}
}

func (r *mockUserRepository) Init(ctx context.Context) error { return nil }

func (r *mockUserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	if _, exists := r.byMail[user.Email]; exists {
		return 0, fmt.Errorf("user %s: %w", user.Email, repository.ErrDuplicate)
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	stored := *user
	r.byID[user.ID] = &stored
	r.byMail[user.Email] = &stored
	return user.ID, nil
}

func (r *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, ok := r.byMail[email]
	if !ok {
		return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

func (r *mockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

func (r *mockUserRepository) UpdateProfile(ctx context.Context, id int64, name, passwordHash *string) error {
	user, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, repository.ErrNotFound)
	}
	if name != nil {
		user.Name = *name
	}
	if passwordHash != nil {
		user.PasswordHash = *passwordHash
	}
	return nil
}

func TestRegister(t *testing.T) {
	svc := NewUserService(newMockUserRepository())

	user, err := svc.Register(context.Background(), "Jane", "jane@example.com", "secret123", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Empty(t, user.PasswordHash)
	assert.Positive(t, user.ID)
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newMockUserRepository()
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), "Jane", "jane@example.com", "secret123", "")
	require.NoError(t, err)

	stored, err := repo.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))
}

func TestRegisterValidation(t *testing.T) {
	svc := NewUserService(newMockUserRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "a@b.com", "secret123", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, "Jane", "not-an-email", "secret123", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, "Jane", "a@b.com", "short", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, "Jane", "a@b.com", "secret123", "superuser")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewUserService(newMockUserRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, "Jane", "dup@example.com", "secret123", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other", "dup@example.com", "secret456", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	svc := NewUserService(newMockUserRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, "Jane", "jane@example.com", "secret123", domain.RoleAdmin)
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "jane@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.Empty(t, user.PasswordHash)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := NewUserService(newMockUserRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, "Jane", "jane@example.com", "secret123", "")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "jane@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc := NewUserService(newMockUserRepository())

	_, err := svc.Authenticate(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	repo := newMockUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Jane", "jane@example.com", "secret123", "")
	require.NoError(t, err)

	name := "Jane W."
	password := "newsecret"
	require.NoError(t, svc.UpdateProfile(ctx, user.ID, &name, &password))

	_, err = svc.Authenticate(ctx, "jane@example.com", "newsecret")
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane W.", profile.Name)
}

func TestUpdateProfileValidation(t *testing.T) {
	svc := NewUserService(newMockUserRepository())
	ctx := context.Background()

	err := svc.UpdateProfile(ctx, 1, nil, nil)
	assert.ErrorIs(t, err, ErrValidation)

	empty := " "
	err = svc.UpdateProfile(ctx, 1, &empty, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProfileMissingUser(t *testing.T) {
	svc := NewUserService(newMockUserRepository())

	name := "Ghost"
	err := svc.UpdateProfile(context.Background(), 999, &name, nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
