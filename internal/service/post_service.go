package service

import (
	"context"
	"errors"
	"strings"

	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/storage"

	"gorm.io/gorm"
)

type PostService struct {
	postRepo repository.PostRepository
	store    storage.ObjectStore
}

// UploadInput is one attachment carried in a post creation request.
type UploadInput struct {
	Filename    string
	ContentType string
	Content     []byte
}

type CreatePostInput struct {
	UserID uint
	Text   string
	Files  []UploadInput
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

// LikeState is the like summary returned after a toggle or a likes read.
type LikeState struct {
	Count        int64 `json:"count"`
	UserHasLiked bool  `json:"userHasLiked"`
}

func NewPostService(postRepo repository.PostRepository, store storage.ObjectStore) *PostService {
	return &PostService{
		postRepo: postRepo,
		store:    store,
	}
}

// ListFeed returns every post newest first, with author, attachments and
// interaction counts resolved. currentUserID may be zero for anonymous reads.
func (s *PostService) ListFeed(ctx context.Context, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.List(ctx, currentUserID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		return nil, asPostNotFound(err, id)
	}
	return post, nil
}

// asPostNotFound maps a gorm record miss onto the service error taxonomy.
func asPostNotFound(err error, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Post", id)
	}
	return err
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.ListByUserID(ctx, userID, currentUserID)
}

// CreatePost validates the text, uploads attachments one at a time and then
// persists the post. Uploads stop at the first failure; nothing is persisted
// in that case, though blobs already written are not reclaimed.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}

	files := make([]models.PostFile, 0, len(in.Files))
	for i, f := range in.Files {
		url, err := s.store.Upload(ctx, f.Content, f.Filename, f.ContentType)
		if err != nil {
			return nil, err
		}
		files = append(files, models.PostFile{URL: url, Position: i})
	}

	post := &models.Post{
		Text:   text,
		UserID: in.UserID,
		Files:  files,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.GetPost(ctx, post.ID, in.UserID)
}

// DeletePost removes a post owned by the caller. Comments and likes that
// reference it are left behind.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.GetPost(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}

	if post.UserID != in.UserID {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

// ToggleLike flips the caller's like on a post and returns the resulting
// state. A concurrent duplicate like surfaces as a conflict from the
// repository and is passed through unchanged.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*LikeState, error) {
	if _, err := s.GetPost(ctx, postID, userID); err != nil {
		return nil, err
	}

	isLiked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if isLiked {
		if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
			return nil, err
		}
	} else {
		if err := s.postRepo.Like(ctx, userID, postID); err != nil {
			return nil, err
		}
	}

	return s.likeState(ctx, userID, postID)
}

// GetLikes returns the current like state of a post for the caller.
func (s *PostService) GetLikes(ctx context.Context, userID, postID uint) (*LikeState, error) {
	if _, err := s.GetPost(ctx, postID, userID); err != nil {
		return nil, err
	}
	return s.likeState(ctx, userID, postID)
}

func (s *PostService) likeState(ctx context.Context, userID, postID uint) (*LikeState, error) {
	count, err := s.postRepo.CountLikes(ctx, postID)
	if err != nil {
		return nil, err
	}
	liked := false
	if userID != 0 {
		liked, err = s.postRepo.IsLiked(ctx, userID, postID)
		if err != nil {
			return nil, err
		}
	}
	return &LikeState{Count: count, UserHasLiked: liked}, nil
}
