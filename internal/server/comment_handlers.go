// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment creates a comment (or reply) on a post (protected)
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content  string                 `json:"content"`
		ParentID *uint                  `json:"parent_id"`
		Media    *service.MediaInput    `json:"media"`
		Mentions []service.MentionInput `json:"mentions"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.ParentID != nil && *req.ParentID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid parent ID"))
	}

	created, err := s.commentService.CreateComment(ctx, service.CreateCommentInput{
		UserID:   userID,
		PostID:   postID,
		Content:  req.Content,
		ParentID: req.ParentID,
		Media:    req.Media,
		Mentions: req.Mentions,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	created.NormalizeMedia()

	return c.Status(fiber.StatusCreated).JSON(created)
}

// ListComments returns one page of a post's comments (protected).
// Query: page, limit, parent_id (omitted = top-level comments).
func (s *Server) ListComments(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var parentID *uint
	if raw := c.Query("parent_id"); raw != "" {
		v := c.QueryInt("parent_id")
		if v <= 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid parent ID"))
		}
		id := uint(v)
		parentID = &id
	}

	page := parseThreadPage(c)
	result, err := s.commentService.ListComments(ctx, service.ListCommentsInput{
		ViewerID: userID,
		PostID:   postID,
		Page:     page.Page,
		Limit:    page.Limit,
		ParentID: parentID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(result)
}

// GetComment returns a single comment scoped to its post (protected)
func (s *Server) GetComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	comment, err := s.commentRepo.GetByID(ctx, postID, commentID)
	if err != nil {
		return respondServiceError(c, models.NewNotFoundError("Comment", commentID))
	}
	comment.NormalizeMedia()

	return c.JSON(comment)
}

// UpdateComment edits a comment's content, media, or mentions (author only).
// Send "media": null together with "clear_media": true to drop an attachment.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req struct {
		Content    *string                 `json:"content"`
		Media      *service.MediaInput     `json:"media"`
		ClearMedia bool                    `json:"clear_media"`
		Mentions   *[]service.MentionInput `json:"mentions"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	updated, err := s.commentService.UpdateComment(ctx, service.UpdateCommentInput{
		UserID:     userID,
		PostID:     postID,
		CommentID:  commentID,
		Content:    req.Content,
		Media:      req.Media,
		ClearMedia: req.ClearMedia,
		Mentions:   req.Mentions,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(updated)
}

// DeleteComment soft-deletes a comment and its whole reply subtree
// (comment author or post owner)
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	count, err := s.commentService.DeleteComment(ctx, userID, postID, commentID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"deleted": true,
		"count":   count,
	})
}

// LikeComment records the caller's like on a comment (protected)
func (s *Server) LikeComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	created, count, err := s.commentService.LikeComment(ctx, userID, postID, commentID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"created":    created,
		"like_count": count,
	})
}

// UnlikeComment removes the caller's like from a comment (protected)
func (s *Server) UnlikeComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	count, err := s.commentService.UnlikeComment(ctx, userID, postID, commentID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"like_count": count,
	})
}

// ReportComment files a report against a comment (protected)
func (s *Server) ReportComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	created, err := s.commentService.ReportComment(ctx, userID, postID, commentID, req.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}

	status := fiber.StatusCreated
	if !created {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(fiber.Map{
		"reported": true,
		"created":  created,
	})
}
