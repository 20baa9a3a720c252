package service

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/repository"
)

// FavoriteService lets a user keep a private list of saved posts.
type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
	postRepo     repository.PostRepository
}

// FavoriteState is returned after a toggle.
type FavoriteState struct {
	Favorited bool `json:"favorited"`
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, postRepo repository.PostRepository) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		postRepo:     postRepo,
	}
}

// ToggleFavorite adds the post to the user's favorites, or removes it if it
// is already there.
func (s *FavoriteService) ToggleFavorite(ctx context.Context, userID, postID uint) (*FavoriteState, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, asPostNotFound(err, postID)
	}

	exists, err := s.favoriteRepo.Exists(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if exists {
		if err := s.favoriteRepo.Remove(ctx, userID, postID); err != nil {
			return nil, err
		}
		return &FavoriteState{Favorited: false}, nil
	}

	if err := s.favoriteRepo.Add(ctx, userID, postID); err != nil {
		return nil, err
	}
	return &FavoriteState{Favorited: true}, nil
}

// ListFavorites returns the user's favorited posts with full details,
// newest post first.
func (s *FavoriteService) ListFavorites(ctx context.Context, userID uint) ([]*models.Post, error) {
	ids, err := s.favoriteRepo.ListPostIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.postRepo.ListByIDs(ctx, ids, userID)
}
