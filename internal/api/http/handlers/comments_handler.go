package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/shelter-kit/shelter-service/internal/api/dto"
	"github.com/shelter-kit/shelter-service/internal/auth"
	"github.com/shelter-kit/shelter-service/internal/service"
	apperrors "github.com/shelter-kit/shelter-service/pkg/util"
)

// CommentsHandler manages comment endpoints.
type CommentsHandler struct {
	comments *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(commentService *service.CommentService) *CommentsHandler {
	return &CommentsHandler{comments: commentService}
}

// List handles GET /api/comments. Open to anonymous callers.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	comments, err := h.comments.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, dto.NewCommentResponse(&comments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /api/comments/:id. Open to anonymous callers.
func (h *CommentsHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	comment, err := h.comments.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// Create handles POST /api/comments. Any authenticated user may comment.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	comment, err := h.comments.Create(c.UserContext(), principal, service.CommentCreateInput{
		Body:   req.Body,
		UserID: req.UserID,
		PostID: req.PostID,
		Status: req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// Update handles PUT /api/comments/:id.
func (h *CommentsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req dto.UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ID != 0 && req.ID != id {
		return apperrors.NewValidationError("id mismatch", map[string]any{"id": req.ID})
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	comment, err := h.comments.Update(c.UserContext(), principal, id, service.CommentUpdateInput{
		Body:   req.Body,
		Status: req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// Delete handles DELETE /api/comments/:id.
func (h *CommentsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := h.comments.Delete(c.UserContext(), principal, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
