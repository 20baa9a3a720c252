package server

import (
	"github.com/gofiber/fiber/v2"
)

// ToggleFavorite handles POST /api/posts/:id/favorite
func (s *Server) ToggleFavorite(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	state, err := s.favoriteService.ToggleFavorite(c.Context(), userID, postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(state)
}

// GetFavorites handles GET /api/favorites
func (s *Server) GetFavorites(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	posts, err := s.favoriteService.ListFavorites(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}
