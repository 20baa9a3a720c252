package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockFavoriteRepository is a mock of the FavoriteRepository interface
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Add(ctx context.Context, userID, postID uint) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) Remove(ctx context.Context, userID, postID uint) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) Exists(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) ListPostIDs(ctx context.Context, userID uint) ([]uint, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]uint), args.Error(1)
}

func newFavoriteTestApp(favRepo *MockFavoriteRepository, postRepo *MockPostRepository) (*fiber.App, *Server) {
	app := fiber.New()
	s := &Server{favoriteRepo: favRepo, postRepo: postRepo}
	s.favoriteService = service.NewFavoriteService(favRepo, postRepo)

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(1))
		return c.Next()
	})
	return app, s
}

func TestToggleFavorite(t *testing.T) {
	t.Run("adds a favorite", func(t *testing.T) {
		favRepo := new(MockFavoriteRepository)
		postRepo := new(MockPostRepository)
		app, s := newFavoriteTestApp(favRepo, postRepo)
		app.Post("/posts/:id/favorite", s.ToggleFavorite)

		postRepo.On("GetByID", mock.Anything, uint(2), uint(0)).Return(&models.Post{ID: 2}, nil)
		favRepo.On("Exists", mock.Anything, uint(1), uint(2)).Return(false, nil)
		favRepo.On("Add", mock.Anything, uint(1), uint(2)).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/posts/2/favorite", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var state service.FavoriteState
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
		assert.True(t, state.Favorited)
	})

	t.Run("removes an existing favorite", func(t *testing.T) {
		favRepo := new(MockFavoriteRepository)
		postRepo := new(MockPostRepository)
		app, s := newFavoriteTestApp(favRepo, postRepo)
		app.Post("/posts/:id/favorite", s.ToggleFavorite)

		postRepo.On("GetByID", mock.Anything, uint(2), uint(0)).Return(&models.Post{ID: 2}, nil)
		favRepo.On("Exists", mock.Anything, uint(1), uint(2)).Return(true, nil)
		favRepo.On("Remove", mock.Anything, uint(1), uint(2)).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/posts/2/favorite", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var state service.FavoriteState
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
		assert.False(t, state.Favorited)
	})
}

func TestGetFavorites(t *testing.T) {
	favRepo := new(MockFavoriteRepository)
	postRepo := new(MockPostRepository)
	app, s := newFavoriteTestApp(favRepo, postRepo)
	app.Get("/favorites", s.GetFavorites)

	favRepo.On("ListPostIDs", mock.Anything, uint(1)).Return([]uint{5, 3}, nil)
	postRepo.On("ListByIDs", mock.Anything, []uint{5, 3}, uint(1)).Return([]*models.Post{
		{ID: 5}, {ID: 3},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/favorites", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	require.Len(t, posts, 2)
}
