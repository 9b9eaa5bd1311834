package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/shelter-kit/shelter-service/internal/api/dto"
	"github.com/shelter-kit/shelter-service/internal/auth"
	"github.com/shelter-kit/shelter-service/internal/service"
	apperrors "github.com/shelter-kit/shelter-service/pkg/util"
)

// PostsHandler manages shelter news post endpoints.
type PostsHandler struct {
	posts *service.PostService
}

// NewPostsHandler constructs handler.
func NewPostsHandler(postService *service.PostService) *PostsHandler {
	return &PostsHandler{posts: postService}
}

// List handles GET /api/posts. Open to anonymous callers.
func (h *PostsHandler) List(c *fiber.Ctx) error {
	posts, err := h.posts.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		items = append(items, dto.NewPostResponse(&posts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /api/posts/:id. Open to anonymous callers.
func (h *PostsHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	post, err := h.posts.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPostResponse(post)})
}

// ListComments handles GET /api/posts/:id/comments. Open to anonymous callers.
func (h *PostsHandler) ListComments(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	comments, err := h.posts.ListComments(c.UserContext(), id)
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, dto.NewCommentResponse(&comments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create handles POST /api/posts.
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	post, err := h.posts.Create(c.UserContext(), principal, service.PostCreateInput{
		Title:  req.Title,
		Body:   req.Body,
		UserID: req.UserID,
		Status: req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPostResponse(post)})
}

// Update handles PUT /api/posts/:id.
func (h *PostsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req dto.UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ID != 0 && req.ID != id {
		return apperrors.NewValidationError("id mismatch", map[string]any{"id": req.ID})
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	post, err := h.posts.Update(c.UserContext(), principal, id, service.PostUpdateInput{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPostResponse(post)})
}

// Delete handles DELETE /api/posts/:id. Comments on the post are removed by
// the schema cascade.
func (h *PostsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := h.posts.Delete(c.UserContext(), principal, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
