package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetUser returns a user's public profile (protected)
func (s *Server) GetUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetProfile(ctx, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// BlockUser blocks the target user for the caller (protected)
func (s *Server) BlockUser(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	created, err := s.userService.BlockUser(ctx, userID, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	status := fiber.StatusCreated
	if !created {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(fiber.Map{
		"blocked": true,
		"created": created,
	})
}

// UnblockUser removes the caller's block on the target user (protected)
func (s *Server) UnblockUser(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.userService.UnblockUser(ctx, userID, targetID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"blocked": false,
	})
}
