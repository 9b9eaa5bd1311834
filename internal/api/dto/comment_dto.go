package dto

import (
	"time"

	"github.com/shelter-kit/shelter-service/internal/domain"
)

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body   string `json:"body" validate:"required,max=255"`
	UserID string `json:"user_id" validate:"required"`
	PostID int64  `json:"post_id" validate:"required"`
	Status string `json:"status"`
}

// UpdateCommentRequest payload.
type UpdateCommentRequest struct {
	ID     int64  `json:"id"`
	Body   string `json:"body" validate:"required,max=255"`
	Status string `json:"status"`
}

// CommentResponse joins the author's username into the representation.
type CommentResponse struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	PostID    int64     `json:"post_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCommentResponse maps a domain comment.
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		Body:      comment.Body,
		UserID:    comment.UserID,
		Username:  comment.OwnerUsername,
		PostID:    comment.PostID,
		Status:    comment.Status,
		CreatedAt: comment.CreatedAt,
	}
}
