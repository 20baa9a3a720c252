package server

import (
	"ripple/internal/models"
	"ripple/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// GetMedia handles GET /media/:key?exp=...&sig=... and serves a stored blob
// after validating the URL's expiry and signature.
func (s *Server) GetMedia(c *fiber.Ctx) error {
	key := c.Params("key")

	exp, sig, err := storage.ParseRetrievalQuery(c.Query("exp"), c.Query("sig"))
	if err != nil {
		return respondServiceError(c, err)
	}

	path, contentType, err := s.store.Open(key, exp, sig)
	if err != nil {
		return respondServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, contentType)
	if sendErr := c.SendFile(path); sendErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(sendErr))
	}
	return nil
}
