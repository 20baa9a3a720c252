package service

import (
	"context"
	"strings"
	"testing"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	updateFn        func(context.Context, *models.User) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
	}
}

func TestUserService_GetUserByID_NotFound(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := NewUserService(repo)

	_, err := svc.GetUserByID(context.Background(), 42)
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()

	t.Run("updates name and avatar", func(t *testing.T) {
		t.Parallel()
		var updated *models.User
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Name: "Old", AvatarURL: "old.png"}, nil
		}
		repo.updateFn = func(_ context.Context, u *models.User) error {
			updated = u
			return nil
		}
		svc := NewUserService(repo)

		user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Name: "New", AvatarURL: "new.png"})
		require.NoError(t, err)
		assert.Equal(t, "New", user.Name)
		assert.Equal(t, "new.png", user.AvatarURL)
		require.NotNil(t, updated)
	})

	t.Run("empty fields keep existing values", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Name: "Keep", AvatarURL: "keep.png"}, nil
		}
		svc := NewUserService(repo)

		user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1})
		require.NoError(t, err)
		assert.Equal(t, "Keep", user.Name)
		assert.Equal(t, "keep.png", user.AvatarURL)
	})

	t.Run("name too long is rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Name: strings.Repeat("x", 101)})
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})
}
