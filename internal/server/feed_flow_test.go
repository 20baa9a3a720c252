package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ripple/internal/database"
	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupFeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func newFeedTestServer(db *gorm.DB) *Server {
	s := &Server{config: testConfig(), db: db}
	s.userRepo = repository.NewUserRepository(db)
	s.postRepo = repository.NewPostRepository(db)
	s.commentRepo = repository.NewCommentRepository(db)
	s.favoriteRepo = repository.NewFavoriteRepository(db)
	s.postService = service.NewPostService(s.postRepo, fakeStore{})
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.userService = service.NewUserService(s.userRepo)
	s.favoriteService = service.NewFavoriteService(s.favoriteRepo, s.postRepo)
	return s
}

// newFeedApp registers the feed routes. userID zero means anonymous.
func newFeedApp(s *Server, userID uint) *fiber.App {
	app := fiber.New()
	if userID != 0 {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("userID", userID)
			return c.Next()
		})
	}
	app.Get("/api/posts", s.GetPosts)
	app.Post("/api/posts", s.CreatePost)
	app.Delete("/api/posts/:id", s.DeletePost)
	app.Get("/api/posts/:id/likes", s.GetLikes)
	app.Post("/api/posts/:id/likes", s.ToggleLike)
	app.Get("/api/posts/:id/comments", s.GetComments)
	app.Post("/api/posts/:id/comments", s.CreateComment)
	app.Post("/api/posts/:id/favorite", s.ToggleFavorite)
	app.Get("/api/favorites", s.GetFavorites)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, target, err)
	}
	return resp
}

func TestFeedFlow(t *testing.T) {
	db := setupFeedTestDB(t)
	s := newFeedTestServer(db)

	author := models.User{Username: "author", Email: "author@example.com", Password: "pw"}
	reader := models.User{Username: "reader", Email: "reader@example.com", Password: "pw"}
	if err := db.Create(&author).Error; err != nil {
		t.Fatalf("create author: %v", err)
	}
	if err := db.Create(&reader).Error; err != nil {
		t.Fatalf("create reader: %v", err)
	}

	authorApp := newFeedApp(s, author.ID)
	readerApp := newFeedApp(s, reader.ID)
	anonApp := newFeedApp(s, 0)

	// author publishes a post
	resp := doJSON(t, authorApp, http.MethodPost, "/api/posts", `{"text":"first post"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create post: expected 201, got %d", resp.StatusCode)
	}
	var created models.Post
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode created post: %v", err)
	}
	resp.Body.Close()
	if created.Text != "first post" {
		t.Fatalf("expected post text round trip, got %q", created.Text)
	}

	// reader likes it once
	resp = doJSON(t, readerApp, http.MethodPost, "/api/posts/1/likes", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("like: expected 200, got %d", resp.StatusCode)
	}
	var state service.LikeState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode like state: %v", err)
	}
	resp.Body.Close()
	if state.Count != 1 || !state.UserHasLiked {
		t.Fatalf("expected count 1 and liked, got %+v", state)
	}

	// a second like toggles back off
	resp = doJSON(t, readerApp, http.MethodPost, "/api/posts/1/likes", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unlike: expected 200, got %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode unlike state: %v", err)
	}
	resp.Body.Close()
	if state.Count != 0 || state.UserHasLiked {
		t.Fatalf("expected count 0 after toggle, got %+v", state)
	}

	// like again so the feed carries a nonzero count
	resp = doJSON(t, readerApp, http.MethodPost, "/api/posts/1/likes", "")
	resp.Body.Close()

	// reader comments
	resp = doJSON(t, readerApp, http.MethodPost, "/api/posts/1/comments", `{"text":"nice one"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("comment: expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// reader favorites the post and lists favorites
	resp = doJSON(t, readerApp, http.MethodPost, "/api/posts/1/favorite", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("favorite: expected 200, got %d", resp.StatusCode)
	}
	var fav service.FavoriteState
	if err := json.NewDecoder(resp.Body).Decode(&fav); err != nil {
		t.Fatalf("decode favorite state: %v", err)
	}
	resp.Body.Close()
	if !fav.Favorited {
		t.Fatalf("expected favorited true")
	}

	resp = doJSON(t, readerApp, http.MethodGet, "/api/favorites", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("favorites: expected 200, got %d", resp.StatusCode)
	}
	var favorites []models.Post
	if err := json.NewDecoder(resp.Body).Decode(&favorites); err != nil {
		t.Fatalf("decode favorites: %v", err)
	}
	resp.Body.Close()
	if len(favorites) != 1 || favorites[0].ID != created.ID {
		t.Fatalf("expected the favorited post, got %+v", favorites)
	}

	// anonymous feed shows the post with counts but no liked flag
	resp = doJSON(t, anonApp, http.MethodGet, "/api/posts", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("feed: expected 200, got %d", resp.StatusCode)
	}
	var feed []models.Post
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	resp.Body.Close()
	if len(feed) != 1 {
		t.Fatalf("expected one post in feed, got %d", len(feed))
	}
	if feed[0].LikesCount != 1 || feed[0].CommentsCount != 1 {
		t.Fatalf("expected counts 1/1, got likes=%d comments=%d", feed[0].LikesCount, feed[0].CommentsCount)
	}
	if feed[0].Liked {
		t.Fatalf("anonymous reader must not see a liked flag")
	}
	if feed[0].User.Username != "author" {
		t.Fatalf("expected author preloaded, got %q", feed[0].User.Username)
	}

	// only the author may delete
	resp = doJSON(t, readerApp, http.MethodDelete, "/api/posts/1", "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("delete by reader: expected 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, authorApp, http.MethodDelete, "/api/posts/1", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete by author: expected 204, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, anonApp, http.MethodGet, "/api/posts", "")
	feed = nil
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		t.Fatalf("decode feed after delete: %v", err)
	}
	resp.Body.Close()
	if len(feed) != 0 {
		t.Fatalf("expected empty feed after delete, got %d posts", len(feed))
	}

	// comments survive the post deletion
	var commentCount int64
	if err := db.Model(&models.Comment{}).Count(&commentCount).Error; err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if commentCount != 1 {
		t.Fatalf("expected comment row to remain, got %d", commentCount)
	}
}
