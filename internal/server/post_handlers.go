package server

import (
	"ripple/internal/service"

	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreatePost creates a new post (protected)
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		Caption       string `json:"caption"`
		AllowComments *bool  `json:"allow_comments"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		UserID:        userID,
		Caption:       req.Caption,
		AllowComments: req.AllowComments,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost returns a single post (protected)
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(ctx, postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// SetAllowComments toggles whether a post accepts new comments (owner only)
func (s *Server) SetAllowComments(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		AllowComments *bool `json:"allow_comments"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil || req.AllowComments == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("allow_comments is required"))
	}

	post, err := s.postService.SetAllowComments(ctx, userID, postID, *req.AllowComments)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}
